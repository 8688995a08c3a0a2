package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	annotate "github.com/swdee/go-annotate"
)

func newTransformCmd(opts *options) *cobra.Command {
	var imageDir string
	var outDir string
	var manifest string
	var split string
	var seed uint64
	var workers int

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply the pipeline and random augmentation to a dataset",
		Long: `Transform reads every image under --images along with its YOLO label file and
writes the transformed image and labels under --out.

The fixed pipeline from the config is applied first followed by augmentation
sampled per image.  Annotations that end up outside the output image or below
the minimum area are removed.  The same seed reproduces the same output.`,
		Example: `  # Augment a training split with the default Ultralytics ranges
  annotate transform --images data/images/train --out aug/train --seed 42

  # Use a config file and write a parquet manifest of the result
  annotate transform -c annotate.yaml --images data/images/train --out aug/train \
    --manifest aug/train.parquet --split train`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg

			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers

				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			items, err := annotate.FindItems(imageDir, outDir)

			if err != nil {
				return err
			}

			if len(items) == 0 {
				return fmt.Errorf("no images found in %s", imageDir)
			}

			p := annotate.NewProcessor(cfg)
			defer p.Close()

			slog.Info("Transforming dataset", "images", len(items), "workers", cfg.Workers,
				"backend", cfg.Backend, "seed", p.Seed())

			outcomes, runErr := p.Run(cmd.Context(), items, nil)

			fmt.Fprintf(cmd.OutOrStdout(), "transformed %d images, %d failed, %d annotations removed, seed %d\n",
				len(items), len(items)-len(outcomeImages(outcomes, "")), removedCount(outcomes), p.Seed())

			if manifest != "" {
				classNames, err := opts.classNames()

				if err != nil {
					return err
				}

				counts, err := writeManifest(manifest, outcomeImages(outcomes, split),
					classNames, cfg.YoloFormat())

				if err != nil {
					return err
				}

				printSummary(cmd.OutOrStdout(), counts)
			}

			return errors.Join(runErr, annotate.Errors(outcomes))
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory of source images")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for images and labels")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Write a parquet manifest of the output")
	cmd.Flags().StringVar(&split, "split", "", "Split name recorded in the manifest")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Augmentation seed, overrides the config")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers, overrides the config")

	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
