// Package qr renders short URLs as QR code images.
package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels used when none is given.
const DefaultSize = 256

// MaxSize bounds the requested edge length.
const MaxSize = 1024

// ErrEmptyContent - nothing to encode.
var ErrEmptyContent = errors.New("empty qr content")

// PNG encodes content as a PNG QR code of size x size pixels. Sizes outside
// (0, MaxSize] fall back to DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}

	return qrcode.Encode(content, qrcode.Medium, size)
}
