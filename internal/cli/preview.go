package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	annotate "github.com/swdee/go-annotate"
	"github.com/swdee/go-annotate/render"
	"github.com/swdee/go-annotate/yolo"
	"gocv.io/x/gocv"
)

func newPreviewCmd(opts *options) *cobra.Command {
	var labels string
	var out string
	var fill float64
	var thickness int

	cmd := &cobra.Command{
		Use:   "preview IMAGE",
		Short: "Draw the annotations of an image to check their alignment",
		Long: `Preview draws the boxes and polygons of an image's YOLO labels with class
names on a copy of the image.  Polygons can additionally be filled with a
transparent overlay.`,
		Example: `  annotate preview aug/train/images/0001.jpg --fill 0.4`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			if labels == "" {
				labels = annotate.LabelPath(file)
			}

			if out == "" {
				ext := filepath.Ext(file)
				out = strings.TrimSuffix(file, ext) + "_preview" + ext
			}

			classNames, err := opts.classNames()

			if err != nil {
				return err
			}

			img := gocv.IMRead(file, gocv.IMReadColor)
			defer img.Close()

			if img.Empty() {
				return fmt.Errorf("error reading image from: %s", file)
			}

			anns, err := yolo.ReadFile(labels, opts.cfg.YoloFormat(),
				float64(img.Cols()), float64(img.Rows()))

			if err != nil {
				return err
			}

			if fill > 0 {
				if err := render.PolygonFill(&img, anns, fill); err != nil {
					return err
				}
			}

			render.Annotations(&img, anns, classNames, render.DefaultFont(), thickness)

			if !gocv.IMWrite(out, img) {
				return fmt.Errorf("error writing image to: %s", out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "drew %d annotations to %s\n", len(anns), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&labels, "labels", "", "Label file, defaults to the dataset label path of the image")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output image, defaults to the image name with a _preview suffix")
	cmd.Flags().Float64Var(&fill, "fill", 0, "Opacity of the polygon fill overlay, 0 disables")
	cmd.Flags().IntVar(&thickness, "thickness", 2, "Outline thickness")

	return cmd
}
