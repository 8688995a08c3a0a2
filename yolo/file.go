package yolo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/swdee/go-annotate/annotation"
)

// Decode reads newline separated label lines of the given format.  Blank
// lines are skipped and parse errors report the 1 based line number.
func Decode(r io.Reader, format Format, width, height float64) ([]annotation.Annotation, error) {

	scanner := bufio.NewScanner(r)

	// segmentation lines of detailed polygons exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var anns []annotation.Annotation
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		ann, err := ParseLine(line, format, width, height)

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		anns = append(anns, ann)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading labels: %w", err)
	}

	return anns, nil
}

// Encode writes one label line per annotation in the given format
func Encode(w io.Writer, format Format, anns []annotation.Annotation,
	width, height float64) error {

	bw := bufio.NewWriter(w)

	for i, a := range anns {
		line, err := FormatLine(a, format, width, height)

		if err != nil {
			return fmt.Errorf("annotation %d (%s): %w", i, a.ID, err)
		}

		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("error writing labels: %w", err)
		}
	}

	return bw.Flush()
}

// ReadFile reads a label file.  A missing file is treated as an image with
// no annotations, which is how YOLO datasets mark background images.
func ReadFile(file string, format Format, width, height float64) ([]annotation.Annotation, error) {

	f, err := os.Open(file)

	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	anns, err := Decode(f, format, width, height)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return anns, nil
}

// WriteFile writes the annotations to a label file, replacing any existing
// file
func WriteFile(file string, format Format, anns []annotation.Annotation,
	width, height float64) error {

	f, err := os.Create(file)

	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := Encode(f, format, anns, width, height); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", file, err)
	}

	return f.Close()
}
