package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/nikbrunner/bmcat/internal/model"
	"golang.org/x/net/html"
)

// idNamespace scopes the name-based UUIDs of imported nodes.
var idNamespace = uuid.MustParse("6f1c3a52-9a0e-4c47-8d55-2a6f0f6d3b1e")

// frame is a folder being filled while its DL is open.
type frame struct {
	node model.Node
	path string
	seen map[string]int // occurrences per key, disambiguates duplicates
}

func newFrame(node model.Node, path string) *frame {
	return &frame{node: node, path: path, seen: map[string]int{}}
}

// stableID derives a deterministic ID for a child of f.
// The same file always yields the same IDs, so assignments keyed by ID
// survive re-reads.
func (f *frame) stableID(kind, key string) string {
	k := kind + "\x00" + key
	n := f.seen[k]
	f.seen[k]++
	name := fmt.Sprintf("%s\x00%s\x00%d", f.path, k, n)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// ParseHTMLBookmarks parses Netscape bookmark HTML into a bookmark forest.
func ParseHTMLBookmarks(r io.Reader) ([]model.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := newFrame(model.Node{}, "")
	stack := []*frame{root}
	var pending *frame // folder waiting to be pushed on next DL

	top := func() *frame { return stack[len(stack)-1] }

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					parent := top()
					folder := model.Node{
						ID:    parent.stableID("folder", name),
						Title: name,
					}
					pending = newFrame(folder, parent.path+"/"+name)
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				parent := top()
				parent.node.Children = append(parent.node.Children, model.Node{
					ID:    parent.stableID("url", href),
					Title: title,
					URL:   href,
				})
				return // Don't recurse into A

			case "dl":
				// Definition list - marks folder contents
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folder := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					parent := top()
					parent.node.Children = append(parent.node.Children, folder.node)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	if root.node.Children == nil {
		return []model.Node{}, nil
	}
	return root.node.Children, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
