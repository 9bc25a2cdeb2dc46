package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"logisticsdash/internal/config"
)

var (
	// ErrMalformedDate is returned when a non-empty Order Date matches no layout
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedNumber is returned for non-numeric text in a numeric column
	ErrMalformedNumber = errors.New("malformed number")
	// ErrMissingColumn is returned when a present file lacks an expected column
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsupportedFormat is returned for file extensions the loader cannot read
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Order is one row of the orders dataset. A zero Date means the cell was empty.
// Source holds every cell of the row, aligned with the table columns.
type Order struct {
	Date     time.Time
	Quantity int64
	Source   []string
}

// HasDate reports whether the order carries a date
func (o Order) HasDate() bool {
	return !o.Date.IsZero()
}

// Freight is one row of the freight-cost dataset. Year 0 means the cell was empty.
type Freight struct {
	Year        int
	OriginPort  string
	MinimumCost decimal.NullDecimal
	Source      []string
}

// WarehouseCost is one row of the warehouse-cost dataset. Year 0 means the cell was empty.
type WarehouseCost struct {
	Year        int
	Warehouse   string
	CostPerUnit decimal.NullDecimal
	Source      []string
}

// DateParser parses Order Date cells against a list of layouts
type DateParser struct {
	layouts []string
}

// NewDateParser creates a parser; an empty list falls back to config.DefaultDateLayouts
func NewDateParser(layouts []string) *DateParser {
	if len(layouts) == 0 {
		layouts = config.DefaultDateLayouts
	}
	return &DateParser{layouts: append([]string(nil), layouts...)}
}

// Parse returns the zero time for an empty cell
func (p *DateParser) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
}

// ParseSerial also accepts spreadsheet date serials such as "44707"
func (p *DateParser) ParseSerial(value string, date1904 bool) (time.Time, error) {
	t, err := p.Parse(value)
	if err == nil {
		return t, nil
	}
	serial, ferr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if ferr != nil || serial <= 0 {
		return time.Time{}, err
	}
	t, terr := excelize.ExcelDateToTime(serial, date1904)
	if terr != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}
	return t, nil
}

// ParseOrders converts the raw orders table. Any non-empty unparseable date fails the whole table.
func ParseOrders(t *Table, dates *DateParser) ([]Order, error) {
	dateCol := t.Column(ColOrderDate)
	qtyCol := t.Column(ColUnitQuantity)

	parse := dates.Parse
	if t.Format == FormatXLSX {
		parse = func(value string) (time.Time, error) { return dates.ParseSerial(value, t.Date1904) }
	}

	orders := make([]Order, 0, t.Len())
	for i := range t.Rows {
		date, err := parse(t.Value(i, dateCol))
		if err != nil {
			return nil, rowError(t, i, ColOrderDate, err)
		}
		qty, err := parseQuantity(t.Value(i, qtyCol))
		if err != nil {
			return nil, rowError(t, i, ColUnitQuantity, err)
		}
		orders = append(orders, Order{Date: date, Quantity: qty, Source: t.Rows[i]})
	}
	return orders, nil
}

// ParseFreight converts the raw freight table
func ParseFreight(t *Table) ([]Freight, error) {
	yearCol := t.Column(ColYear)
	portCol := t.Column(ColOriginPort)
	costCol := t.Column(ColMinimumCost)

	rows := make([]Freight, 0, t.Len())
	for i := range t.Rows {
		year, err := parseYear(t.Value(i, yearCol))
		if err != nil {
			return nil, rowError(t, i, ColYear, err)
		}
		cost, err := parseMoney(t.Value(i, costCol))
		if err != nil {
			return nil, rowError(t, i, ColMinimumCost, err)
		}
		rows = append(rows, Freight{Year: year, OriginPort: t.Value(i, portCol), MinimumCost: cost, Source: t.Rows[i]})
	}
	return rows, nil
}

// ParseWarehouseCosts converts the raw warehouse-cost table
func ParseWarehouseCosts(t *Table) ([]WarehouseCost, error) {
	yearCol := t.Column(ColYear)
	whCol := t.Column(ColWarehouse)
	costCol := t.Column(ColCostPerUnit)

	rows := make([]WarehouseCost, 0, t.Len())
	for i := range t.Rows {
		year, err := parseYear(t.Value(i, yearCol))
		if err != nil {
			return nil, rowError(t, i, ColYear, err)
		}
		cost, err := parseMoney(t.Value(i, costCol))
		if err != nil {
			return nil, rowError(t, i, ColCostPerUnit, err)
		}
		rows = append(rows, WarehouseCost{Year: year, Warehouse: t.Value(i, whCol), CostPerUnit: cost, Source: t.Rows[i]})
	}
	return rows, nil
}

// rowError reports the file line (header is line 1)
func rowError(t *Table, row int, column string, err error) error {
	return fmt.Errorf("%s line %d, column %q: %w", t.Name, row+2, column, err)
}

// parseYear accepts integers and integral floats such as "2022.0"
func parseYear(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	if year, err := strconv.Atoi(value); err == nil {
		return year, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: year %q", ErrMalformedNumber, value)
	}
	return int(f), nil
}

// parseQuantity accepts non-negative integers and integral floats. Empty is 0.
func parseQuantity(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	value = strings.ReplaceAll(value, ",", "")
	qty, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: quantity %q", ErrMalformedNumber, value)
		}
		if math.Abs(f) >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: quantity %q overflows int64", ErrMalformedNumber, value)
		}
		qty = int64(f)
	}
	if qty < 0 {
		return 0, fmt.Errorf("%w: negative quantity %q", ErrMalformedNumber, value)
	}
	return qty, nil
}

// parseMoney accepts plain decimals with an optional "$" and thousands separators.
// An empty cell is a missing value.
func parseMoney(value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	cleaned := strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: amount %q", ErrMalformedNumber, value)
	}
	return decimal.NewNullDecimal(d), nil
}
