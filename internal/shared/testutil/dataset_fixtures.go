package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Sample datasets covering two years, an empty numeric cell and a year with
// freight rows but no orders.
const (
	SampleOrdersCSV = `Order ID,Order Date,Unit quantity,Carrier
1447296447,2022-05-26,808,V44_3
1447158015,2022-05-26,3188,V44_3
1447138899,2022-05-27,2331,V44_3
1447363528,2023-01-03,1500,V44_5
`

	SampleFreightCSV = `Carrier,orig_port_cd,minimum cost,Year
V444_6,PORT08,0.5,2022
V444_6,PORT09,1.25,2022
V444_6,PORT08,0.75,2022
V444_7,PORT04,2.00,2023
V444_8,PORT04,,2024
`

	SampleWarehouseCSV = `WH,Cost/unit,Year
PLANT15,1.415682,2022
PLANT17,0.428,2022
PLANT15,3.0,2023
PLANT18,,2023
`
)

// SampleFiles names the files written by WriteSampleDataset
type SampleFiles struct {
	Dir       string
	Orders    string
	Freight   string
	Warehouse string
}

// WriteFile writes content to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteSampleDataset writes the three sample CSV files into a fresh temp dir
func WriteSampleDataset(t *testing.T) SampleFiles {
	t.Helper()

	dir := t.TempDir()
	return SampleFiles{
		Dir:       dir,
		Orders:    WriteFile(t, dir, "expanded_orders.csv", SampleOrdersCSV),
		Freight:   WriteFile(t, dir, "expanded_freight.csv", SampleFreightCSV),
		Warehouse: WriteFile(t, dir, "expanded_wh_costs.csv", SampleWarehouseCSV),
	}
}
