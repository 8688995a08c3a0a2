package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/swdee/go-annotate/yolo"
)

// convertLabels rewrites every label file under srcDir into dstDir in the
// given format.  YOLO values are normalized so conversion does not depend on
// the image size and a unit image is used.
func convertLabels(srcDir, dstDir string, from, to yolo.Format) (int, error) {

	n := 0

	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {

		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)

		if err != nil {
			return err
		}

		anns, err := yolo.ReadFile(path, from, 1, 1)

		if err != nil {
			return err
		}

		out := filepath.Join(dstDir, rel)

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("error creating label directory: %w", err)
		}

		if err := yolo.WriteFile(out, to, anns, 1, 1); err != nil {
			return err
		}

		n++
		return nil
	})

	return n, err
}

func newConvertCmd(opts *options) *cobra.Command {
	var labelDir string
	var outDir string
	var to string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert YOLO labels between detection and segmentation format",
		Long: `Convert rewrites every .txt label file under --labels into --out.  The source
format is taken from the config.  Segmentation polygons become their bounding
box, detection boxes become four corner polygons.`,
		Example: `  # Detection labels to segmentation polygons
  annotate convert --labels data/labels --out seg/labels --to segment`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := yolo.ParseFormat(to)

			if err != nil {
				return err
			}

			n, err := convertLabels(labelDir, outDir, opts.cfg.YoloFormat(), target)

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "converted %d label files to %s\n", n, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&labelDir, "labels", "", "Directory of source label files")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for converted labels")
	cmd.Flags().StringVar(&to, "to", yolo.FormatSegmentation.String(), "Target format, detect or segment")

	_ = cmd.MarkFlagRequired("labels")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
