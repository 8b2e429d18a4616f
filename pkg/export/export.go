// Package export serializes extracted file references to JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/coolbeans/sopex/pkg/sop"
)

// WriteJSON writes refs to w as a JSON array indented with four spaces,
// one object per reference with name, location, and format keys. An empty
// set encodes as [].
func WriteJSON(w io.Writer, refs []sop.FileReference) error {
	if refs == nil {
		refs = []sop.FileReference{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(refs); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteCSV writes refs to w as CSV: a name,location,format header row
// followed by one row per reference.
func WriteCSV(w io.Writer, refs []sop.FileReference) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "location", "format"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, ref := range refs {
		if err := cw.Write([]string{ref.Name, ref.Location, ref.Format}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
