// Package sop parses Standard Operating Procedure documents written in a
// semi-structured markdown-like dialect and extracts the file references
// their process blocks describe.
package sop

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// lineSep joins multi-line attribute values and free-text bodies,
// regardless of the line endings the source file was authored with.
const lineSep = "\n"

var (
	// commentPattern matches one comment span; the non-greedy body lets
	// multiple comments in a document be removed independently. An opener
	// with no matching closer never matches and is left in place.
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

	// segmentPattern matches the runs of blank lines that separate
	// blocks, tolerating carriage returns from Windows-authored files.
	segmentPattern = regexp.MustCompile(`(\r?\n){2,}`)

	linePattern = regexp.MustCompile(`\r?\n`)

	// headerPattern matches block headers of the form "# <type>: <name>".
	headerPattern = regexp.MustCompile(`^# ([^:]+):(.*)$`)
)

// Parser parses SOP documents according to a dialect profile. A Parser is
// safe for concurrent use: its only state is the profile, which it never
// modifies.
type Parser struct {
	profile *Profile
}

// NewParser returns a Parser for the standard SOP dialect.
func NewParser() *Parser {
	return &Parser{profile: DefaultProfile()}
}

// NewParserWithProfile returns a Parser for a custom dialect.
func NewParserWithProfile(profile *Profile) *Parser {
	return &Parser{profile: profile}
}

// Parse reads an SOP document from r and returns its parsed structure.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return p.parseText(string(data))
}

// ParseFile parses the SOP document at path. The file is closed before
// ParseFile returns, whether parsing succeeds or fails.
func (p *Parser) ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse parses an SOP document from r using the standard dialect.
func Parse(r io.Reader) (*Document, error) {
	return NewParser().Parse(r)
}

// ParseFile parses the SOP file at path using the standard dialect.
func ParseFile(path string) (*Document, error) {
	return NewParser().ParseFile(path)
}

func (p *Parser) parseText(text string) (*Document, error) {
	segments := splitSegments(stripComments(text))
	if len(segments) == 0 {
		return nil, parseErrorf("document is empty: no preamble segment found")
	}

	meta, err := parsePreamble(segments[0])
	if err != nil {
		return nil, err
	}

	doc := &Document{Meta: meta, Blocks: make([]*Block, 0, len(segments)-1)}
	for _, segment := range segments[1:] {
		block, err := p.parseBlock(segment)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc, nil
}

// stripComments removes every <!-- --> span, including spans that cross
// line boundaries. Comments cannot nest.
func stripComments(text string) string {
	return commentPattern.ReplaceAllString(text, "")
}

// splitSegments splits text on runs of blank lines, dropping segments
// that are empty or whitespace only. The first segment is the preamble;
// the rest are block candidates.
func splitSegments(text string) []string {
	var segments []string
	for _, segment := range segmentPattern.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// parsePreamble parses the document metadata segment. Each line is split
// on its first colon; keys and values are trimmed of surrounding '#' and
// space characters. Later occurrences of a key overwrite earlier ones.
func parsePreamble(segment string) (map[string]string, error) {
	meta := make(map[string]string)
	for _, line := range linePattern.Split(segment, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, parseErrorf("preamble line %q is not of the form '# key: value'", line)
		}
		meta[strings.Trim(key, "# ")] = strings.Trim(value, "# ")
	}
	return meta, nil
}

// parseBlock parses one blank-line-delimited block segment, dispatching
// on the category its header type resolves to.
func (p *Parser) parseBlock(segment string) (*Block, error) {
	var lines []string
	for _, line := range linePattern.Split(segment, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	m := headerPattern.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, parseErrorf("header line %q did not match expected format '# <type>: <name>'", lines[0])
	}
	kind := strings.TrimSpace(m[1])
	name := strings.TrimSpace(m[2])
	body := lines[1:]

	category, ok := p.profile.category(kind)
	if !ok {
		return nil, parseErrorf("encountered unrecognized block type %q", kind)
	}

	switch category {
	case CategoryFreeText:
		// The header name, if present, is discarded for free-text blocks.
		return &Block{
			Kind:     kind,
			Category: CategoryFreeText,
			Text:     strings.Join(body, lineSep),
		}, nil
	case CategoryProcess:
		return p.parseProcessBlock(kind, name, body)
	case CategoryHistory:
		return parseHistoryBlock(kind, body)
	default:
		return nil, parseErrorf("encountered unrecognized block type %q", kind)
	}
}

// parseProcessBlock parses the body of an Analysis or Quality control
// block: a list of block-level attributes followed by any number of
// subsections, each with its own attribute list.
func (p *Parser) parseProcessBlock(kind, name string, body []string) (*Block, error) {
	block := &Block{
		Kind:       kind,
		Category:   CategoryProcess,
		Name:       name,
		Attributes: make(Attributes),
	}

	// target is where attribute lines land: the block itself until the
	// first subsection opens, then the open subsection.
	target := block.Attributes
	// curKey tracks the last declared attribute so continuation lines
	// can extend its value.
	curKey := ""

	for _, line := range body {
		switch {
		case strings.HasPrefix(line, "- "):
			key, value, ok := strings.Cut(line[2:], ":")
			if !ok {
				return nil, parseErrorf("in \"%s: %s\", attribute line %q has no ':' separator", kind, name, line)
			}
			key = strings.TrimSpace(key)
			target[key] = strings.TrimSpace(value)
			curKey = key

		case strings.HasPrefix(line, "## "):
			// Subsections marked "Not uploaded" describe files left out
			// of the SOP bundle. They open nothing, and the current
			// target stays as it was, so lines that follow still attach
			// to it.
			if strings.HasPrefix(line, "## Not uploaded:") {
				continue
			}
			sub := &Subsection{
				Name:       strings.TrimSpace(line[3:]),
				Attributes: make(Attributes),
			}
			block.Subsections = append(block.Subsections, sub)
			target = sub.Attributes
			curKey = ""

		default:
			// A plain line continues the most recently declared
			// attribute's value.
			if curKey == "" {
				return nil, parseErrorf("in \"%s: %s\", encountered unparseable line: %s", kind, name, line)
			}
			trimmed := strings.TrimSpace(line)
			if target[curKey] != "" {
				target[curKey] += lineSep + trimmed
			} else {
				target[curKey] = trimmed
			}
		}
	}

	for _, sub := range block.Subsections {
		if sub.Attributes.Get("Type", "") == p.profile.FileListType &&
			!strings.HasSuffix(sub.Name, p.profile.FileListSuffix) {
			return nil, parseErrorf(
				"in \"%s: %s\", encountered entry with type %q and expected the file to end in %q, but found %q instead",
				kind, name, p.profile.FileListType, p.profile.FileListSuffix, sub.Name)
		}
	}
	return block, nil
}
