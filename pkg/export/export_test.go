package export

import (
	"strings"
	"testing"

	"github.com/coolbeans/sopex/pkg/sop"
)

func TestWriteJSON(t *testing.T) {
	refs := []sop.FileReference{
		{Name: "out_files.txt", Location: "./results", Format: "txt"},
	}

	var sb strings.Builder
	if err := WriteJSON(&sb, refs); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	want := `[
    {
        "name": "out_files.txt",
        "location": "./results",
        "format": "txt"
    }
]
`
	if sb.String() != want {
		t.Errorf("JSON output:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteJSON(&sb, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if got := strings.TrimSpace(sb.String()); got != "[]" {
		t.Errorf("empty set encoded as %q, want []", got)
	}
}

func TestWriteCSV(t *testing.T) {
	refs := []sop.FileReference{
		{Name: "out_files.txt", Location: "./results", Format: "txt"},
		{Name: "summary, final.csv", Location: ".", Format: "csv"},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, refs); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "name,location,format\n" +
		"out_files.txt,./results,txt\n" +
		"\"summary, final.csv\",.,csv\n"
	if sb.String() != want {
		t.Errorf("CSV output:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if sb.String() != "name,location,format\n" {
		t.Errorf("empty set wrote %q, want just the header row", sb.String())
	}
}
