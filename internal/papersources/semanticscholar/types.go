package semanticscholar

// searchResponse is the /graph/v1/paper/search response body.
type searchResponse struct {
	Data []paperRecord `json:"data"`
}

// paperRecord is one paper in the search response.
type paperRecord struct {
	Title    string         `json:"title"`
	Abstract string         `json:"abstract"`
	Authors  []authorRecord `json:"authors"`
	URL      string         `json:"url"`
}

// authorRecord is one author of a paper. Name may be absent.
type authorRecord struct {
	Name string `json:"name"`
}
