package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// CSVHeader lists the columns of the group table export.
func CSVHeader() []string {
	header := []string{"binary_label", "motor_label", "total"}
	for q := MinQuality; q <= MaxQuality; q++ {
		header = append(header, "q"+strconv.Itoa(q))
	}
	return header
}

// WriteCSV writes the group table to w.
func (s Summary) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader()); err != nil {
		return err
	}
	for _, g := range s.Groups {
		row := []string{g.BinaryLabel, g.MotorLabel, strconv.Itoa(g.Total)}
		for _, n := range g.Quality {
			row = append(row, strconv.Itoa(n))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the group table to path, creating parent directories.
func (s Summary) SaveCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	if err := s.WriteCSV(file); err != nil {
		file.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close summary: %w", err)
	}
	return nil
}
