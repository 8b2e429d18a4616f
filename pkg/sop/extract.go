package sop

import "io"

// ExtractFileReferences walks the process blocks of a parsed document and
// returns one FileReference per subsection, in document order of blocks
// and then of subsections within each block. Location defaults to "." and
// Format to "" when the subsection omits those attributes.
func ExtractFileReferences(doc *Document) []FileReference {
	var refs []FileReference
	for _, block := range doc.Blocks {
		if block.Category != CategoryProcess {
			continue
		}
		for _, sub := range block.Subsections {
			refs = append(refs, FileReference{
				Name:     sub.Name,
				Location: sub.Attributes.Get("Location", "."),
				Format:   sub.Attributes.Get("Format", ""),
			})
		}
	}
	return refs
}

// Extract parses an SOP document from r and returns its file references.
func (p *Parser) Extract(r io.Reader) ([]FileReference, error) {
	doc, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	return ExtractFileReferences(doc), nil
}

// ExtractFile parses the SOP file at path and returns its file
// references.
func (p *Parser) ExtractFile(path string) ([]FileReference, error) {
	doc, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ExtractFileReferences(doc), nil
}
