package report

import (
	"encoding/json"
)

// renderJSON serializes the report data
func renderJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc.Data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
