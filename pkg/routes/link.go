package routes

// Link is a rendered route. It is produced by Nav.Render and Table.Lookup
// and has nothing left to resolve.
type Link struct {
	url     string
	pattern string
	meta    Meta
}

// URL returns the path and query, e.g. "/search?q=hi&page=1".
func (l Link) URL() string {
	return l.url
}

// Pattern returns the path with ":name" placeholders, e.g. "/users/:id".
func (l Link) Pattern() string {
	return l.pattern
}

// Meta returns a copy of the route metadata.
func (l Link) Meta() (Meta, bool) {
	if l.meta == nil {
		return nil, false
	}
	return l.meta.clone(), true
}

// String implements fmt.Stringer and returns URL.
func (l Link) String() string {
	return l.url
}
