// Package exporter writes filtered dashboard views as downloadable tables.
//
// Sheets are built from analytics views (one per table plus a KPI summary) and
// encoded either as CSV, one sheet per file with a UTF-8 BOM for Excel, or as a
// single XLSX workbook with one worksheet per sheet.
//
// Example usage:
//
//	sheets := exporter.Sheets(views)
//	err := exporter.EncodeXLSX(w, sheets)
//
//	writer := exporter.NewCSVWriter("reports", logger)
//	paths, err := writer.WriteSheets("2022", sheets)
package exporter
