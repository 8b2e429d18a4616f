package sop

// BlockCategory classifies a block by the grammar used to parse its body.
type BlockCategory string

const (
	// CategoryFreeText blocks carry free-form prose after the header.
	CategoryFreeText BlockCategory = "free_text"

	// CategoryProcess blocks carry attribute lists and named subsections.
	CategoryProcess BlockCategory = "process"

	// CategoryHistory blocks carry semicolon-delimited version entries.
	CategoryHistory BlockCategory = "history"
)

// Document is a fully parsed SOP document. It is immutable once returned
// by a Parser.
type Document struct {
	// Meta holds the document metadata from the preamble segment, e.g.
	// title, version, and date.
	Meta map[string]string `json:"meta"`

	// Blocks are the document's blocks in source order.
	Blocks []*Block `json:"blocks"`
}

// Block is one blank-line-delimited unit of an SOP document. Its Category
// determines which fields are populated: Text for free-text blocks,
// Attributes and Subsections for process blocks, Entries for history
// blocks.
type Block struct {
	Kind        string         `json:"kind"`
	Category    BlockCategory  `json:"category"`
	Name        string         `json:"name,omitempty"`
	Text        string         `json:"text,omitempty"`
	Attributes  Attributes     `json:"attributes,omitempty"`
	Subsections []*Subsection  `json:"subsections,omitempty"`
	Entries     []HistoryEntry `json:"entries,omitempty"`
}

// Subsection is a named child of a process block, introduced by a "## "
// header line.
type Subsection struct {
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
}

// Attributes maps attribute keys to their values.
type Attributes map[string]string

// Get returns the value for key, or def when the key is absent. Reading
// never creates the key.
func (a Attributes) Get(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// HistoryEntry is one parsed line of a History block.
type HistoryEntry struct {
	Version     string `json:"version"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// FileReference describes one file-bearing subsection of a process block.
type FileReference struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Format   string `json:"format"`
}
