package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	annotate "github.com/swdee/go-annotate"
	"github.com/swdee/go-annotate/augment"
	"github.com/swdee/go-annotate/export"
	"github.com/swdee/go-annotate/yolo"
)

// datasetImages reads the size and labels of every image under imageDir
func datasetImages(imageDir, split string, format yolo.Format) ([]export.Image, error) {

	items, err := annotate.FindItems(imageDir, "")

	if err != nil {
		return nil, err
	}

	images := make([]export.Image, 0, len(items))

	for _, item := range items {
		w, h, err := augment.ImageSize(item.Image)

		if err != nil {
			return nil, err
		}

		anns, err := yolo.ReadFile(item.Labels, format, float64(w), float64(h))

		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.Labels, err)
		}

		images = append(images, export.Image{
			Path:        item.Image,
			Split:       split,
			Width:       w,
			Height:      h,
			Annotations: anns,
		})
	}

	return images, nil
}

func newExportCmd(opts *options) *cobra.Command {
	var imageDir string
	var manifest string
	var split string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a parquet manifest of a dataset's annotations",
		Long: `Export lists every annotation of the images under --images as a row of a
parquet manifest with pixel coordinates, area and the YOLO label line, then
prints the number of annotations per class.`,
		Example: `  annotate export --images data/images/val --manifest val.parquet --split val`,
		RunE: func(cmd *cobra.Command, args []string) error {
			classNames, err := opts.classNames()

			if err != nil {
				return err
			}

			format := opts.cfg.YoloFormat()

			images, err := datasetImages(imageDir, split, format)

			if err != nil {
				return err
			}

			counts, err := writeManifest(manifest, images, classNames, format)

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote manifest of %d images to %s\n", len(images), manifest)
			printSummary(cmd.OutOrStdout(), counts)

			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory of images")
	cmd.Flags().StringVar(&manifest, "manifest", "manifest.parquet", "Path of the parquet manifest")
	cmd.Flags().StringVar(&split, "split", "", "Split name recorded in the manifest")

	_ = cmd.MarkFlagRequired("images")

	return cmd
}
