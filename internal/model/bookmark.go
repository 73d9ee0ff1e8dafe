package model

// Bookmark is a leaf of the browser's bookmark forest.
// The browser owns it; bmcat only reads it.
type Bookmark struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Node is a single entry of the bookmark forest.
// A node with a URL is a bookmark, a node without one is a folder.
type Node struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// IsBookmark returns true if the node carries a URL.
func (n Node) IsBookmark() bool {
	return n.URL != ""
}

// Bookmark returns the node as a Bookmark.
func (n Node) Bookmark() Bookmark {
	return Bookmark{ID: n.ID, Title: n.Title, URL: n.URL}
}
