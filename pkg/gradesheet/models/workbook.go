package models

// WorkbookReport is the read-back view of a produced workbook.
type WorkbookReport struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists every sheet in workbook order.
	Sheets []SheetReport `json:"sheets"`
}

// Sheet returns the report for a sheet by name.
func (w *WorkbookReport) Sheet(name string) (*SheetReport, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}
