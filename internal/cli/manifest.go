package cli

import (
	"errors"
	"fmt"
	"io"

	annotate "github.com/swdee/go-annotate"
	"github.com/swdee/go-annotate/export"
	"github.com/swdee/go-annotate/yolo"
)

// writeManifest writes the annotations of every image to a parquet manifest
// and returns the per class counts
func writeManifest(path string, images []export.Image, classNames []string,
	format yolo.Format) ([]export.ClassCount, error) {

	w, err := export.NewWriter(path)

	if err != nil {
		return nil, err
	}

	var all []export.Row

	for _, img := range images {
		rows, err := export.Rows(img, classNames, format)

		if err != nil {
			return nil, errors.Join(err, w.Close())
		}

		if err := w.Write(rows); err != nil {
			return nil, errors.Join(err, w.Close())
		}

		all = append(all, rows...)
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return export.Summarize(all), nil
}

// outcomeImages returns the manifest images of the successful outcomes
func outcomeImages(outcomes []annotate.Outcome, split string) []export.Image {

	images := make([]export.Image, 0, len(outcomes))

	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}

		images = append(images, export.Image{
			Path:        o.Item.OutImage,
			Split:       split,
			Width:       o.Result.Width,
			Height:      o.Result.Height,
			Annotations: o.Result.Annotations,
		})
	}

	return images
}

// printSummary writes the class counts as a table
func printSummary(out io.Writer, counts []export.ClassCount) {

	total := 0

	for _, c := range counts {
		name := c.ClassName

		if name == "" {
			name = "-"
		}

		fmt.Fprintf(out, "%6d  %-24s %8d\n", c.ClassID, name, c.Count)
		total += c.Count
	}

	fmt.Fprintf(out, "%6s  %-24s %8d\n", "", "total", total)
}

// removedCount returns the number of annotations removed across outcomes
func removedCount(outcomes []annotate.Outcome) int {

	n := 0

	for _, o := range outcomes {
		n += len(o.Result.Removed)
	}

	return n
}
