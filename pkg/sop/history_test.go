package sop

import (
	"strings"
	"testing"
)

func TestHistoryBlock(t *testing.T) {
	doc := parseDoc(t, `# Title: x

# History: changelog
- 1.0;2018-10-30;added analysis quality control
- 1.1;2019-02-14;fixed preamble fields
`)

	block := doc.Blocks[0]
	if block.Category != CategoryHistory {
		t.Fatalf("category = %q, want %q", block.Category, CategoryHistory)
	}
	if len(block.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(block.Entries))
	}

	want := HistoryEntry{Version: "1.0", Date: "2018-10-30", Description: "added analysis quality control"}
	if block.Entries[0] != want {
		t.Errorf("entry 0 = %+v, want %+v", block.Entries[0], want)
	}
}

func TestHistoryLineTooFewParts(t *testing.T) {
	perr := expectParseError(t, "# Title: x\n\n# History: c\n- 1.0;2018-10-30\n")

	if !strings.Contains(perr.Msg, "got 2") {
		t.Errorf("error %q does not report the part count", perr.Msg)
	}
	if !strings.Contains(perr.Msg, `"History"`) {
		t.Errorf("error %q does not carry the block context", perr.Msg)
	}
}

func TestHistoryLineTooManyParts(t *testing.T) {
	perr := expectParseError(t, "# Title: x\n\n# History: c\n- 1.0;2018-10-30;desc;extra\n")

	if !strings.Contains(perr.Msg, "got 4") {
		t.Errorf("error %q does not report the part count", perr.Msg)
	}
}

func TestHistoryLineLeadingMarkerStripped(t *testing.T) {
	entry, err := formatHistoryLine("- 2.0;2020-01-01;rework")
	if err != nil {
		t.Fatalf("formatHistoryLine failed: %v", err)
	}
	if entry.Version != "2.0" {
		t.Errorf("version = %q, want %q", entry.Version, "2.0")
	}
}
