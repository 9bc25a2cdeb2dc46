package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "logisticsdash/internal/errors"
)

// Format is the on-disk encoding of a dataset file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ctxCheckInterval is how many rows are read between context checks
const ctxCheckInterval = 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat picks the reader from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Loader reads dataset files into raw tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader that reports missing files on logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "dataset_loader"))}
}

// LoadTable reads path into a Table. An absent file is not an error: the result
// is an empty table whose columns are exactly expected, and a warning is logged.
// A present file must contain every expected column.
func (l *Loader) LoadTable(ctx context.Context, name, path string, expected []string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.WarnContext(ctx, "dataset file not found, using empty table",
				slog.String("dataset", name),
				slog.String("path", path),
				slog.Any("columns", expected))
			return emptyTable(name, path, expected), nil
		}
		return nil, apierrors.NewStorageError(fmt.Sprintf("cannot access %s dataset", name), err).
			WithContext("path", path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, apierrors.NewDataCorruptedError(fmt.Sprintf("cannot read %s dataset", name), err).
			WithContext("path", path)
	}

	var table *Table
	switch format {
	case FormatXLSX:
		table, err = readXLSX(ctx, path)
	default:
		table, err = readCSV(ctx, path)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apierrors.NewDataCorruptedError(fmt.Sprintf("cannot parse %s dataset", name), err).
			WithContext("path", path)
	}
	table.Name = name
	table.Path = path
	table.Format = format

	if len(table.Columns) == 0 {
		l.logger.WarnContext(ctx, "dataset file is empty, using empty table",
			slog.String("dataset", name),
			slog.String("path", path))
		table.Columns = append([]string(nil), expected...)
	}

	if missing := table.MissingColumns(expected); len(missing) > 0 {
		return nil, apierrors.NewDataCorruptedError(
			fmt.Sprintf("%s dataset is missing required columns", name),
			fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", ")),
		).WithContext("path", path).WithContext("columns", table.Columns)
	}

	l.logger.DebugContext(ctx, "dataset file read",
		slog.String("dataset", name),
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", table.Len()))

	return table, nil
}

// readCSV reads a header row and all data rows. Rows may have any number of fields.
func readCSV(ctx context.Context, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{Rows: [][]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	table := &Table{Columns: normalizeHeader(header), Rows: [][]string{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, record)

		if len(table.Rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

// readXLSX reads the first sheet. The first row is the header. Cells are read
// unformatted so numbers keep full precision and dates arrive as serials.
func readXLSX(ctx context.Context, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{Rows: [][]string{}}, nil
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	table := &Table{Rows: [][]string{}, Date1904: date1904}
	headerSeen := false
	for rows.Next() {
		record, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if !headerSeen {
			if isBlankRow(record) {
				continue
			}
			table.Columns = normalizeHeader(record)
			headerSeen = true
			continue
		}
		if isBlankRow(record) {
			continue
		}
		table.Rows = append(table.Rows, record)

		if len(table.Rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return table, rows.Error()
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	return columns
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
