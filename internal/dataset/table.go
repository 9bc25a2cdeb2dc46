package dataset

import "strings"

// Column names of the three input files.
const (
	ColOrderDate    = "Order Date"
	ColUnitQuantity = "Unit quantity"

	ColYear        = "Year"
	ColOriginPort  = "orig_port_cd"
	ColMinimumCost = "minimum cost"

	ColWarehouse   = "WH"
	ColCostPerUnit = "Cost/unit"
)

// Table names used in logs, metrics and exports.
const (
	TableOrders    = "orders"
	TableFreight   = "freight"
	TableWarehouse = "warehouse"
)

// Expected columns per table. A missing file yields an empty table with exactly these.
var (
	OrderColumns     = []string{ColOrderDate, ColUnitQuantity}
	FreightColumns   = []string{ColYear, ColOriginPort, ColMinimumCost}
	WarehouseColumns = []string{ColWarehouse, ColCostPerUnit, ColYear}
)

// Table is a raw, header-driven tabular dataset. Columns come from the header
// row; rows may be shorter than the header.
type Table struct {
	Name    string
	Path    string
	Columns []string
	Rows    [][]string
	// Format is the encoding the table was read from
	Format Format
	// Date1904 is set for workbooks whose date serials count from 1904
	Date1904 bool
	// Missing is set when the file did not exist and the table was synthesized empty
	Missing bool
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the index of the named column or -1
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) >= 0
}

// Value returns the trimmed cell at (row, col), or "" when the row is short or col is -1
func (t *Table) Value(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// MissingColumns lists the expected columns absent from the header
func (t *Table) MissingColumns(expected []string) []string {
	var missing []string
	for _, c := range expected {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func emptyTable(name, path string, expected []string) *Table {
	return &Table{
		Name:    name,
		Path:    path,
		Columns: append([]string(nil), expected...),
		Rows:    [][]string{},
		Missing: true,
	}
}
