// audio_decode.go - Fetch and decode song assets into in-memory buffers

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var ErrUnsupportedAudioFormat = errors.New("unsupported audio format")

// Song is a fully decoded audio asset, resampled to the graph format.
type Song struct {
	URL    string
	Buffer *beep.Buffer
}

// Duration returns the decoded length of the song.
func (s *Song) Duration() time.Duration {
	if s == nil || s.Buffer == nil {
		return 0
	}
	return s.Buffer.Format().SampleRate.D(s.Buffer.Len())
}

// streamerAt returns a streamer positioned offset into the song. Offsets
// outside the song are clamped; an offset past the end yields an empty
// streamer, which ends immediately.
func (s *Song) streamerAt(offset time.Duration) beep.Streamer {
	n := s.Buffer.Len()
	from := s.Buffer.Format().SampleRate.N(offset)
	from = max(0, min(from, n))
	return s.Buffer.Streamer(from, n)
}

// AssetFetcher opens song assets. HTTP(S) URLs go through the client;
// anything else is a path, relative paths resolved against BaseDir.
type AssetFetcher struct {
	BaseDir string
	Client  *http.Client
}

func isRemoteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (f *AssetFetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if isRemoteURL(url) {
		client := f.Client
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
		}
		return resp.Body, nil
	}
	p := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(p) && f.BaseDir != "" {
		p = filepath.Join(f.BaseDir, p)
	}
	return os.Open(p)
}

func audioExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(path.Ext(url))
}

func decodeAudio(ext string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := io.NopCloser(bytes.NewReader(data))
	switch ext {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(bytes.NewReader(data))
	case ".ogg":
		return vorbis.Decode(rc)
	case ".flac":
		return flac.Decode(bytes.NewReader(data))
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedAudioFormat, ext)
}

// DecodeSong fetches url and decodes it completely into memory at the
// graph's sample rate.
func DecodeSong(ctx context.Context, fetcher *AssetFetcher, url string, format beep.Format) (*Song, error) {
	if fetcher == nil {
		fetcher = &AssetFetcher{}
	}
	rc, err := fetcher.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load song %s: %w", url, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("load song %s: %w", url, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	streamer, srcFormat, err := decodeAudio(audioExt(url), data)
	if err != nil {
		return nil, fmt.Errorf("decode song %s: %w", url, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if srcFormat.SampleRate != format.SampleRate {
		s = beep.Resample(RESAMPLE_QUALITY, srcFormat.SampleRate, format.SampleRate, streamer)
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode song %s: %w", url, err)
	}
	return &Song{URL: url, Buffer: buf}, nil
}
