package models

// CellRow is one non-empty row read back from a produced workbook.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (1-based, as string) to the cell value.
	C map[string]interface{} `json:"c"`
	// Links maps column index to the hyperlink found on that cell.
	Links map[string]LinkInfo `json:"links,omitempty"`
}

// LinkInfo is a hyperlink read back from a sheet.
type LinkInfo struct {
	// Target is the in-workbook location or external URL.
	Target string `json:"target"`
	// Tooltip is the hover text, if any.
	Tooltip string `json:"tooltip,omitempty"`
}
