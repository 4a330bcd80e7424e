// Package export writes reconstructed boxes as table rows.
//
// Each [model.MergedBox] becomes one [Row] with a leading 0-based row
// number. Supported formats are CSV, TSV, JSON, JSON Lines, and an HTML
// table:
//
//	exporter := export.NewExporterWithConfig(export.CSVConfig())
//	err := exporter.Export(boxes, os.Stdout)
//
// CSV output defaults to the header "No.,page,text,x0,y0,width,height" and
// starts with a UTF-8 byte order mark so that spreadsheet applications
// detect the encoding of non-Latin text.
package export
