//go:build headless

package main

import (
	"context"
	"errors"
)

var errNoWindow = errors.New("window shell not available in headless builds, use --terminal")

func init() {
	compiledFeatures = append(compiledFeatures, "shell:headless")
}

func runWindow(ctx context.Context, p *Player, cfg *Config) error {
	return errNoWindow
}
