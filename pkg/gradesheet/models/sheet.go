package models

// SheetReport is what inspect reads back from one sheet.
type SheetReport struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows contains non-empty rows with cell values and links.
	Rows []CellRow `json:"rows,omitempty"`
	// Merges lists merged ranges in A1 notation (e.g. "C1:H1").
	Merges []string `json:"merges,omitempty"`
	// PrintAreas contains the sheet's print areas.
	PrintAreas []PrintArea `json:"print_areas,omitempty"`
	// LinkCount is the number of hyperlinks on the sheet.
	LinkCount int `json:"link_count"`
	// UsedRange is the bounding box of non-empty cells (e.g. "A1:H6").
	UsedRange string `json:"used_range,omitempty"`
}
