package augment

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ImageExts are the file extensions recognised as dataset images
var ImageExts = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"}

// IsImage reports whether the file name has an image extension
func IsImage(file string) bool {

	ext := strings.ToLower(filepath.Ext(file))

	for _, e := range ImageExts {
		if ext == e {
			return true
		}
	}

	return false
}

// LoadImage loads an image from a file path with WebP support
func LoadImage(path string) (image.Image, error) {

	// try imaging.Open with the registered decoders
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// fallback to an explicit WebP decode
	f, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("error opening image: %w", err)
	}

	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// ImageSize reads the dimensions of an image without decoding its pixels
func ImageSize(path string) (int, int, error) {

	f, err := os.Open(path)

	if err != nil {
		return 0, 0, fmt.Errorf("error opening image: %w", err)
	}

	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)

	if err != nil {
		return 0, 0, fmt.Errorf("error reading image header %s: %w", path, err)
	}

	return cfg.Width, cfg.Height, nil
}

// SaveImage saves an image choosing the encoder from the file extension.
// Quality applies to jpeg and lossy webp output.
func SaveImage(img image.Image, path string, quality int) error {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)

		if err != nil {
			return fmt.Errorf("error creating image: %w", err)
		}

		defer f.Close()

		return webp.Encode(f, img, &webp.Options{Quality: float32(quality)})

	case ".jpg", ".jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}

	return imaging.Save(img, path)
}
