// Package interest builds the user's interest profile: extracting text from
// an uploaded document, mining keyword candidates with heuristic pattern
// matching, merging them with declared interests, and optionally refining
// the result through a model backend.
package interest

import "context"

// Document is the contract of the document-text-extraction collaborator
// (e.g. a PDF service). The core never interprets the document format; it
// only consumes page texts.
type Document interface {
	// PageTexts returns one string per page in document order. A page
	// with no extractable text is an empty string, not a missing entry.
	PageTexts(ctx context.Context) ([]string, error)
}

// ExtractText concatenates all page texts in document order, separated by
// newlines. Pages without extractable text contribute empty strings so the
// page count survives in the output.
func ExtractText(ctx context.Context, doc Document) (string, error) {
	pages, err := doc.PageTexts(ctx)
	if err != nil {
		return "", err
	}

	out := ""
	for i, page := range pages {
		if i > 0 {
			out += "\n"
		}
		out += page
	}
	return out, nil
}
