package outline

import (
	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

// Parse builds the section tree for an already-extracted document. The only
// error condition is a document without pages; structural failures always
// degrade to the fallback strategy instead.
func Parse(doc Document, cfg Config) (*ParseResult, error) {
	if doc.PageCount() == 0 {
		return nil, pdfdoc.ErrEmptyDocument
	}

	cands, used := NewSelector(cfg).Select(doc)
	root, flat := buildTree(cands, doc.PageCount())
	attachText(flat, doc)

	return &ParseResult{
		Strategy:  used,
		PageCount: doc.PageCount(),
		Root:      root,
		Sections:  flat,
	}, nil
}

// ParseFile opens a PDF from disk and parses it.
func ParseFile(path string, cfg Config) (*ParseResult, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}
	return Parse(doc, cfg)
}
