package arxiv

// Feed is the root element of the arXiv Atom query response.
type Feed struct {
	Entries []Entry `xml:"entry"`
}

// Entry is one paper entry in the feed. Absent elements decode to the zero
// value, which is how the "empty string when tag absent" contract is kept.
type Entry struct {
	ID      string   `xml:"id"`
	Title   string   `xml:"title"`
	Summary string   `xml:"summary"`
	Authors []Author `xml:"author"`
}

// Author is one author element of an entry.
type Author struct {
	Name string `xml:"name"`
}
