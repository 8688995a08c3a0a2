package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	annotate "github.com/swdee/go-annotate"
)

func newTileCmd(opts *options) *cobra.Command {
	var imageDir string
	var outDir string
	var width int
	var height int
	var overlap float64

	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Slice large images and their labels into overlapping tiles",
		Long: `Tile crops every image under --images into overlapping tiles and writes each
tile with its own YOLO labels under --out.  Annotations cut by a tile edge are
clipped to the tile, those outside it are dropped.`,
		Example: `  # 640x640 tiles overlapping by 20%
  annotate tile --images data/images/val --out tiles/val --width 640 --height 640 --overlap 0.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := annotate.FindItems(imageDir, outDir)

			if err != nil {
				return err
			}

			tiles, err := annotate.TileItems(items, width, height, overlap)

			if err != nil {
				return err
			}

			p := annotate.NewProcessor(opts.cfg)
			defer p.Close()

			slog.Info("Tiling dataset", "images", len(items), "tiles", len(tiles))

			outcomes, runErr := p.RunTiles(cmd.Context(), tiles, nil)

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tiles from %d images, %d annotations removed\n",
				len(outcomeImages(outcomes, "")), len(items), removedCount(outcomes))

			return errors.Join(runErr, annotate.Errors(outcomes))
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory of source images")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for tiles and labels")
	cmd.Flags().IntVar(&width, "width", 640, "Tile width")
	cmd.Flags().IntVar(&height, "height", 640, "Tile height")
	cmd.Flags().Float64Var(&overlap, "overlap", 0.2, "Overlap ratio between neighbouring tiles")

	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
