package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// AssetsDir is searched for sprite sheet images named by frames.
var AssetsDir = "assets"

var (
	images  = map[string]*ebiten.Image{}
	missing = map[string]bool{}
)

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	images[key] = img
	delete(missing, key)
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return images[key]
}

// LoadImage loads an image from the assets directory and caches it by key.
// A failed load is remembered so a missing sheet is only looked up once.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("render: empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	if missing[key] {
		return nil, fmt.Errorf("render: image %s not found", key)
	}
	img, err := loadImageFromFS(key)
	if err != nil {
		missing[key] = true
		return nil, err
	}
	RegisterImage(key, img)
	return img, nil
}

func loadImageFromFS(path string) (*ebiten.Image, error) {
	tried := []string{filepath.Join(AssetsDir, path), path, filepath.Base(path)}
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		im, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode %s: %w", p, err)
		}
		return ebiten.NewImageFromImage(im), nil
	}
	return nil, fmt.Errorf("render: image %s not found", path)
}
