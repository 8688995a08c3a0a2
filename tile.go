package annotate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/swdee/go-annotate/augment"
	"github.com/swdee/go-annotate/transform"
)

// Tile is a region of an Item's image written out as its own image and
// labels
type Tile struct {
	Item
	// Number of the tile within its source image in row major order
	Number int
	// Width and Height of the source image
	Width  int
	Height int
	// Crop is the resolved chain cropping the source image to the tile
	Crop transform.Chain
}

// TileItems slices the image of each item into overlapping tiles of
// tileWidth x tileHeight.  Output paths of a tile carry the tile number as a
// suffix, for example 0001_003.jpg.
func TileItems(items []Item, tileWidth, tileHeight int, overlap float64) ([]Tile, error) {

	var tiles []Tile

	for _, item := range items {

		w, h, err := augment.ImageSize(item.Image)

		if err != nil {
			return nil, err
		}

		specs, err := transform.Tiles(w, h, tileWidth, tileHeight, overlap, overlap)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.Image, err)
		}

		for i, s := range specs {
			crop, err := transform.Chain{s}.Resolve(w, h)

			if err != nil {
				return nil, fmt.Errorf("%s tile %d: %w", item.Image, i, err)
			}

			t := Tile{
				Item:   item,
				Number: i,
				Width:  w,
				Height: h,
				Crop:   crop,
			}

			if item.OutImage != "" {
				t.OutImage = tilePath(item.OutImage, i)
				t.OutLabels = LabelPath(t.OutImage)
			}

			tiles = append(tiles, t)
		}
	}

	return tiles, nil
}

// tilePath inserts the tile number before the file extension
func tilePath(file string, number int) string {
	ext := filepath.Ext(file)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(file, ext), number, ext)
}

// RunTiles crops the image and labels of each tile across the configured
// workers.  The pipeline and augmentation are not applied to tiles.
func (p *Processor) RunTiles(ctx context.Context, tiles []Tile, hook func(Outcome)) ([]Outcome, error) {
	return p.run(ctx, len(tiles),
		func(idx int) Outcome {
			t := tiles[idx]

			return p.apply(Outcome{
				Item:   t.Item,
				Index:  idx,
				Width:  t.Width,
				Height: t.Height,
				Chain:  t.Crop,
			})
		},
		func(idx int) Item {
			return tiles[idx].Item
		},
		hook)
}
