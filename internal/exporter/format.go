package exporter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is used for every exported date
const DateLayout = "2006-01-02"

// Format is an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates an export format name
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), true
	}
	return "", false
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// formatCell renders a sheet cell as CSV text. Missing values are empty.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return formatYear(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case decimal.Decimal:
		return c.String()
	case decimal.NullDecimal:
		if !c.Valid {
			return ""
		}
		return c.Decimal.String()
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format(DateLayout)
	default:
		return fmt.Sprint(c)
	}
}

// xlsxCell converts a sheet cell to a value excelize writes natively
func xlsxCell(v any) any {
	switch c := v.(type) {
	case int:
		if c == 0 {
			return nil
		}
		return c
	case decimal.Decimal:
		return c.InexactFloat64()
	case decimal.NullDecimal:
		if !c.Valid {
			return nil
		}
		return c.Decimal.InexactFloat64()
	case time.Time:
		if c.IsZero() {
			return nil
		}
		return c.Format(DateLayout)
	default:
		return c
	}
}

// formatYear leaves the missing year (0) empty
func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}
