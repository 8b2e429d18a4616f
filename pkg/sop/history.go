package sop

import "strings"

// parseHistoryBlock parses the body of a History block, one version entry
// per line. The header name, if present, is discarded.
func parseHistoryBlock(kind string, body []string) (*Block, error) {
	block := &Block{
		Kind:     kind,
		Category: CategoryHistory,
		Entries:  make([]HistoryEntry, 0, len(body)),
	}
	for _, line := range body {
		entry, err := formatHistoryLine(line)
		if err != nil {
			return nil, parseErrorf("in %q block, %v", kind, err)
		}
		block.Entries = append(block.Entries, entry)
	}
	return block, nil
}

// formatHistoryLine parses one semicolon-delimited version history line,
// e.g. "- 1.0;2018-10-30;added analysis quality control". The line must
// split into exactly three parts.
func formatHistoryLine(line string) (HistoryEntry, error) {
	parts := strings.SplitN(strings.Trim(line, "- "), ";", 4)
	if len(parts) != 3 {
		return HistoryEntry{}, parseErrorf("expected 3 version history parts, but got %d (text: %q)", len(parts), line)
	}
	return HistoryEntry{Version: parts[0], Date: parts[1], Description: parts[2]}, nil
}
