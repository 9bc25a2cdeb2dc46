package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes sheets as CSV files under a base directory
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer rooted at dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file and returns its full path
func (w *CSVWriter) WriteCSV(fileName string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(fileName)

	w.logger.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	stream, err := w.CreateStreamWriter(fileName, options.Headers, options.BOMPrefix)
	if err != nil {
		return "", err
	}
	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("failed to finish %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// WriteSheets writes each sheet to "<prefix>_<sheet>.csv" and returns the paths
func (w *CSVWriter) WriteSheets(prefix string, sheets []Sheet) ([]string, error) {
	paths := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		name := sheet.Name + ".csv"
		if prefix != "" {
			name = prefix + "_" + name
		}
		path, err := w.WriteCSV(name, WriteOptions{
			Headers:   sheet.Headers,
			Records:   sheet.records(),
			BOMPrefix: true,
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// EncodeCSV streams one sheet to out
func EncodeCSV(out io.Writer, sheet Sheet, bom bool) error {
	if bom {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(sheet.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range sheet.Rows {
		if err := writer.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(fileName string, headers []string, bom bool) (*StreamWriter, error) {
	fullPath := w.resolvePath(fileName)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath places relative names under the writer's directory
func (w *CSVWriter) resolvePath(fileName string) string {
	if filepath.IsAbs(fileName) || w.dir == "" {
		return fileName
	}
	return filepath.Join(w.dir, fileName)
}

func (s Sheet) records() [][]string {
	records := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		records = append(records, formatRow(row))
	}
	return records
}

func formatRow(row []any) []string {
	record := make([]string, len(row))
	for i, cell := range row {
		record[i] = formatCell(cell)
	}
	return record
}
