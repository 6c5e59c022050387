package cuesheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// CSV download metadata.
const (
	CSVFileName = "cues.csv"
	CSVMIMEType = "text/csv"
)

// WriteCSV writes a header row of column labels followed by one row per cue, in
// the order given. Fields containing commas, quotes or newlines are quoted.
func WriteCSV(w io.Writer, cues []Cue, columns []Column) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, c := range cues {
		for i, col := range columns {
			row[i] = FormatField(c, col.Key)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for cue %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV renders the cue list as CSV text.
func ExportCSV(cues []Cue, columns []Column) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, cues, columns); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
