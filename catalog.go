package chankit

import "regexp"

// Catalog is a board's full thread listing, grouped into pages. Each thread
// appears as its opening post only; use Board.GetThread for the full thread.
type Catalog struct {
	Pages []Page `json:"pages" validate:"dive"`
}

// Page is one page of a board catalog.
type Page struct {
	Page   int    `json:"page"`
	Topics []Post `json:"threads" validate:"dive"`
}

// Topics flattens all pages into a single sequence of opening posts, page
// order preserved. Threads listed on more than one page appear once per
// listing.
func (c *Catalog) Topics() []*Post {
	var topics []*Post
	for i := range c.Pages {
		page := &c.Pages[i]
		for j := range page.Topics {
			topics = append(topics, &page.Topics[j])
		}
	}
	return topics
}

// Find returns the opening posts whose author name, comment text, subject
// or filename matches query, compiled as a case-insensitive regular
// expression. A nil slice means nothing matched.
func (c *Catalog) Find(query string) ([]*Post, error) {
	re, err := compileQuery(query)
	if err != nil {
		return nil, err
	}

	var topics []*Post
	for _, t := range c.Topics() {
		if t.Matches(re) {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

// compileQuery builds the case-insensitive matcher shared by catalog and
// cache searches.
func compileQuery(query string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, &QueryError{Pattern: query, Err: err}
	}
	return re, nil
}
