package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is used when size is zero or negative.
	DefaultSize = 256
	// MaxSize bounds the rendered image width in pixels.
	MaxSize = 2048
)

var (
	ErrEmptyContent = errors.New("qrcode: empty content")
	ErrInvalidSize  = errors.New("qrcode: size too large")
)

// Generate encodes content as a size x size PNG.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidSize, size, MaxSize)
	}

	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
