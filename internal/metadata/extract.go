package metadata

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// pageMeta is the raw material pulled out of a fetched HTML document,
// before field-mapping and fallbacks are applied.
type pageMeta struct {
	title       string
	description string
	siteName    string
	icons       []string // <link rel="icon"> hrefs, resolved to absolute URLs
	images      []string // og:image URLs, in document order
}

// extract walks the parsed HTML tree and collects the title, the
// description meta tags, Open Graph properties, and favicon links.
// Open Graph values win over their plain-HTML counterparts when both
// are present.
func extract(r io.Reader, base *url.URL) (*pageMeta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	pm := &pageMeta{}
	var docTitle, metaDescription string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				content := strings.TrimSpace(attr(n, "content"))
				if content == "" {
					break
				}
				switch strings.ToLower(key) {
				case "og:title":
					if pm.title == "" {
						pm.title = content
					}
				case "og:description":
					if pm.description == "" {
						pm.description = content
					}
				case "description":
					if metaDescription == "" {
						metaDescription = content
					}
				case "og:site_name":
					if pm.siteName == "" {
						pm.siteName = content
					}
				case "og:image", "og:image:url":
					pm.images = append(pm.images, resolveRef(base, content))
				}
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				href := strings.TrimSpace(attr(n, "href"))
				if href != "" && strings.Contains(rel, "icon") {
					pm.icons = append(pm.icons, resolveRef(base, href))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if pm.title == "" {
		pm.title = docTitle
	}
	if pm.description == "" {
		pm.description = metaDescription
	}
	return pm, nil
}

// resolveRef makes href absolute against the document base. An
// unparsable href is returned unchanged rather than dropped.
func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
