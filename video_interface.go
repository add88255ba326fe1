// video_interface.go - Graphics device interface for the CRT display

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"image"
)

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}

// ErrUploadUsage is returned by NewTexture for TextureUsageUpload; upload
// textures come from NewUploadTexture.
var ErrUploadUsage = errors.New("upload textures are created with NewUploadTexture")

// DisplayConfig contains backend-independent window configuration
type DisplayConfig struct {
	Width      int
	Height     int
	Scale      float64 // Window scaling factor
	Density    float64 // Pixel density of the offscreen target
	VSync      bool
	Fullscreen bool
	Title      string
}

type TextureUsage int

const (
	// TextureUsageUpload textures are filled from CPU pixels
	TextureUsageUpload TextureUsage = iota
	// TextureUsageRenderTarget textures are filled by draw calls only
	TextureUsageRenderTarget
	// TextureUsageDepth is a depth attachment
	TextureUsageDepth
)

func (u TextureUsage) String() string {
	switch u {
	case TextureUsageUpload:
		return "upload"
	case TextureUsageRenderTarget:
		return "render-target"
	case TextureUsageDepth:
		return "depth"
	}
	return fmt.Sprintf("TextureUsage(%d)", int(u))
}

// Texture is a GPU image owned by a GraphicsDevice. Render targets and
// depth attachments are plain Textures and can only be filled by draw calls.
type Texture interface {
	Size() (width, height int)
	Usage() TextureUsage
}

// UploadTexture is a Texture filled from CPU pixels.
type UploadTexture interface {
	Texture
	// Upload replaces the texture contents. pix must match the texture size.
	Upload(pix *image.RGBA) error
}

// Shader is a compiled fragment program.
type Shader interface{}

// Uniforms maps shader variable names to values.
type Uniforms map[string]any

// GraphicsDevice is the drawing surface the renderer targets. A nil target
// is the visible surface.
type GraphicsDevice interface {
	// NewTexture allocates a render target or depth texture.
	NewTexture(width, height int, usage TextureUsage) (Texture, error)
	NewUploadTexture(width, height int) (UploadTexture, error)
	CompileShader(src []byte) (Shader, error)

	SetTarget(t Texture)
	Target() Texture
	SurfaceSize() (width, height int)

	// Clear fills the current target with transparent black.
	Clear()
	// DrawTexture draws src scaled to cover the current target using
	// nearest-neighbour sampling.
	DrawTexture(src Texture)
	// DrawShaderRect covers the current target with one rectangle shaded
	// by sh, with sampler bound to image slot 0.
	DrawShaderRect(sh Shader, sampler Texture, uniforms Uniforms)
}

// ClampScale keeps a window scale in a usable range
func ClampScale(scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	return min(scale, 4)
}
