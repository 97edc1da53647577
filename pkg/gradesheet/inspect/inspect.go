// Package inspect reads a produced workbook back so its layout can be checked
// without opening it in a spreadsheet application.
package inspect

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/models"
	"github.com/xuri/excelize/v2"
)

// Open reads the workbook at path.
func Open(path string) (*models.WorkbookReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(data, filepath.Base(path))
}

// Read inspects workbook bytes.
func Read(data []byte, bookName string) (*models.WorkbookReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "open package")
	}
	links, err := sheetLinks(zr)
	if err != nil {
		return nil, errors.Wrap(err, "read hyperlinks")
	}
	printAreas := ExtractPrintAreas(f)

	report := &models.WorkbookReport{BookName: bookName}
	for _, name := range f.GetSheetList() {
		rows, err := ExtractCells(f, name, links[name])
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %q", name)
		}
		merges, err := f.GetMergeCells(name)
		if err != nil {
			return nil, errors.Wrapf(err, "sheet %q merges", name)
		}

		sheet := models.SheetReport{
			Name:       name,
			Rows:       rows,
			PrintAreas: printAreas[name],
			LinkCount:  len(links[name]),
			UsedRange:  UsedRange(rows),
		}
		for _, m := range merges {
			sheet.Merges = append(sheet.Merges, m.GetStartAxis()+":"+m.GetEndAxis())
		}
		report.Sheets = append(report.Sheets, sheet)
	}

	return report, nil
}
