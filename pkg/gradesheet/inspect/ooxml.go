package inspect

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// hyperlink is a <hyperlink> element of a worksheet part.
type hyperlink struct {
	Ref      string
	Location string
	RelID    string
	Tooltip  string
}

// sheetLinks reads every hyperlink of every sheet straight from the package,
// since excelize does not expose tooltips. The result maps sheet name to cell
// reference to link.
func sheetLinks(r *zip.Reader) (map[string]map[string]hyperlink, error) {
	result := make(map[string]map[string]hyperlink)

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result, err
	}
	sheetsInfo := parseWorkbookSheets(workbookXML)
	if len(sheetsInfo) == 0 {
		return result, nil
	}

	wbRelsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return result, err
	}

	for sheetName, sheetPath := range parseWorkbookRels(wbRelsXML, sheetsInfo) {
		sheetXML, err := readZipFile(r, sheetPath)
		if err != nil {
			return nil, err
		}
		links := parseHyperlinks(sheetXML)
		if len(links) == 0 {
			continue
		}

		relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1)
		relsPath = strings.Replace(relsPath, ".xml", ".xml.rels", 1)
		targets := map[string]string{}
		if relsXML, err := readZipFile(r, relsPath); err == nil && relsXML != nil {
			targets = parseRelationshipTargets(relsXML)
		}

		byRef := make(map[string]hyperlink, len(links))
		for _, l := range links {
			if l.Location == "" && l.RelID != "" {
				l.Location = targets[l.RelID]
			}
			byRef[l.Ref] = l
		}
		result[sheetName] = byRef
	}

	return result, nil
}

func parseHyperlinks(data []byte) []hyperlink {
	var result []hyperlink
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "hyperlink" {
			continue
		}
		var l hyperlink
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "ref":
				l.Ref = attr.Value
			case "location":
				l.Location = attr.Value
			case "id":
				l.RelID = attr.Value
			case "tooltip":
				l.Tooltip = attr.Value
			}
		}
		if l.Ref != "" {
			result = append(result, l)
		}
	}

	return result
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	clean := target
	for strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(clean, "../")
	}
	if clean != target {
		return "xl/" + clean
	}
	return baseDir + "/" + target
}

// parseWorkbookSheets maps relationship id to sheet name.
func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					name = attr.Value
				case "id":
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}

	return result
}

// parseWorkbookRels maps sheet name to its worksheet part.
func parseWorkbookRels(data []byte, sheetsInfo map[string]string) map[string]string {
	result := make(map[string]string)
	for rID, target := range parseRelationshipTargets(data) {
		if sheetName, ok := sheetsInfo[rID]; ok && strings.Contains(strings.ToLower(target), "worksheet") {
			result[sheetName] = resolveRelativePath(target, "xl")
		}
	}
	return result
}

// parseRelationshipTargets maps relationship id to target.
func parseRelationshipTargets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" {
				result[rID] = target
			}
		}
	}

	return result
}
