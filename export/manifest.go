// Package export writes a dataset manifest listing every annotation of a
// release as a parquet table.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"
	"github.com/swdee/go-annotate/annotation"
	"github.com/swdee/go-annotate/yolo"
)

// Row is one annotation of the manifest.  Coordinates are in pixel space of
// the image after any transforms were applied.
type Row struct {
	Image        string    `parquet:"image"`
	Split        string    `parquet:"split"`
	Width        int32     `parquet:"width"`
	Height       int32     `parquet:"height"`
	AnnotationID string    `parquet:"annotation_id"`
	ClassID      int32     `parquet:"class_id"`
	ClassName    string    `parquet:"class_name"`
	Confidence   float64   `parquet:"confidence"`
	Shape        string    `parquet:"shape"`
	XMin         float64   `parquet:"x_min"`
	YMin         float64   `parquet:"y_min"`
	XMax         float64   `parquet:"x_max"`
	YMax         float64   `parquet:"y_max"`
	Area         float64   `parquet:"area"`
	Polygon      []float64 `parquet:"polygon"`
	// Label is the YOLO line written for the annotation
	Label string `parquet:"label"`
}

// Image describes an image and its annotations to add to the manifest
type Image struct {
	Path        string
	Split       string
	Width       int
	Height      int
	Annotations []annotation.Annotation
}

// Rows converts the annotations of an image to manifest rows
func Rows(img Image, classNames []string, format yolo.Format) ([]Row, error) {

	rows := make([]Row, 0, len(img.Annotations))

	for _, a := range img.Annotations {
		label, err := yolo.FormatLine(a, format, float64(img.Width), float64(img.Height))

		if err != nil {
			return nil, fmt.Errorf("%s annotation %s: %w", img.Path, a.ID, err)
		}

		b := a.Bounds()

		row := Row{
			Image:        img.Path,
			Split:        img.Split,
			Width:        int32(img.Width),
			Height:       int32(img.Height),
			AnnotationID: a.ID,
			ClassID:      int32(a.ClassID),
			Confidence:   a.Confidence,
			Shape:        a.Shape.String(),
			XMin:         b.XMin,
			YMin:         b.YMin,
			XMax:         b.XMax,
			YMax:         b.YMax,
			Area:         a.Area(),
			Label:        label,
		}

		if a.ClassID < len(classNames) {
			row.ClassName = classNames[a.ClassID]
		}

		if a.Shape == annotation.ShapePolygon {
			row.Polygon = make([]float64, 0, 2*len(a.Polygon))

			for _, p := range a.Polygon {
				row.Polygon = append(row.Polygon, p.X, p.Y)
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// Writer streams manifest rows to a parquet file
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[Row]
	rows   int
}

// NewWriter creates the manifest file, replacing any existing file
func NewWriter(path string) (*Writer, error) {

	f, err := os.Create(path)

	if err != nil {
		return nil, fmt.Errorf("failed to create manifest: %w", err)
	}

	return &Writer{
		file:   f,
		writer: parquet.NewGenericWriter[Row](f),
	}, nil
}

// Write appends rows to the manifest
func (w *Writer) Write(rows []Row) error {

	n, err := w.writer.Write(rows)
	w.rows += n

	if err != nil {
		return fmt.Errorf("failed to write manifest rows: %w", err)
	}

	return nil
}

// Rows returns the number of rows written so far
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes the parquet footer and closes the file
func (w *Writer) Close() error {

	err := errors.Join(w.writer.Close(), w.file.Close())

	if err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}

	slog.Debug("Manifest written", "path", w.file.Name(), "rows", w.rows)

	return nil
}

// ReadFile loads every row of a manifest
func ReadFile(path string) ([]Row, error) {

	file, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	defer file.Close()

	info, err := file.Stat()

	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())

	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	records := make([]Row, 0, pf.NumRows())
	rows := make([]Row, 128)

	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read manifest rows: %w", err)
		}
	}

	return records, nil
}

// ClassCount is the number of annotations of a class in a manifest
type ClassCount struct {
	ClassID   int
	ClassName string
	Count     int
}

// Summarize counts the annotations per class ordered by class id
func Summarize(rows []Row) []ClassCount {

	counts := make(map[int32]*ClassCount)

	for _, r := range rows {
		c, ok := counts[r.ClassID]

		if !ok {
			c = &ClassCount{ClassID: int(r.ClassID), ClassName: r.ClassName}
			counts[r.ClassID] = c
		}

		c.Count++
	}

	out := make([]ClassCount, 0, len(counts))

	for _, c := range counts {
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ClassID < out[j].ClassID
	})

	return out
}
