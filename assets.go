package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font/basicfont"
)

const fontSize = 24

// loadFace returns the TrueType font at path, or the built-in bitmap font
// when path is empty.
func loadFace(path string) (text.Face, error) {
	if path == "" {
		return text.NewGoXFace(basicfont.Face7x13), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	defer f.Close()
	src, err := text.NewGoTextFaceSource(f)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &text.GoTextFace{Source: src, Size: fontSize}, nil
}

// loadBackground decodes a png, jpeg or bmp image. An empty path means no
// background.
func loadBackground(path string) (*ebiten.Image, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load background: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
