package sop

import (
	"strings"
	"testing"
)

func TestExtractSingleReference(t *testing.T) {
	refs, err := NewParser().Extract(strings.NewReader(`# Title: Test SOP

# Analysis: Cell Segmentation
- Location: ./data
## out_files.txt
- Type: file list
- Location: ./results
- Format: txt
`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	want := FileReference{Name: "out_files.txt", Location: "./results", Format: "txt"}
	if refs[0] != want {
		t.Errorf("reference = %+v, want %+v", refs[0], want)
	}
}

func TestExtractDefaults(t *testing.T) {
	refs, err := NewParser().Extract(strings.NewReader(`# Title: x

# Analysis: a
## raw_data
- Notes: no location or format given
`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	if refs[0].Location != "." {
		t.Errorf("Location = %q, want %q", refs[0].Location, ".")
	}
	if refs[0].Format != "" {
		t.Errorf("Format = %q, want empty", refs[0].Format)
	}
}

func TestExtractDocumentOrder(t *testing.T) {
	refs, err := NewParser().Extract(strings.NewReader(`# Title: x

# Introduction: skipped
free text only

# Analysis: first
## a_files.txt
- Type: file list
## b.csv
- Type: data table

# Quality control: second
## c_files.txt
- Type: file list
`))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	wantNames := []string{"a_files.txt", "b.csv", "c_files.txt"}
	if len(refs) != len(wantNames) {
		t.Fatalf("got %d references, want %d", len(refs), len(wantNames))
	}
	for i, name := range wantNames {
		if refs[i].Name != name {
			t.Errorf("reference %d = %q, want %q", i, refs[i].Name, name)
		}
	}
}

func TestExtractNoProcessBlocks(t *testing.T) {
	refs, err := NewParser().Extract(strings.NewReader("# Title: x\n\n# Introduction: c\ntext\n"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("got %d references from a document with no process blocks", len(refs))
	}
}

func TestExtractIsRecomputable(t *testing.T) {
	doc := parseDoc(t, "# Title: x\n\n# Analysis: a\n## out_files.txt\n- Type: file list\n")

	first := ExtractFileReferences(doc)
	second := ExtractFileReferences(doc)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("repeated extraction disagrees: %+v and %+v", first, second)
	}
}

func TestExtractPropagatesParseError(t *testing.T) {
	_, err := NewParser().Extract(strings.NewReader("# Title: x\n\n# Summary: foo\ntext\n"))
	if err == nil {
		t.Fatal("expected the parse failure to propagate")
	}
}
