package lookup

import (
	"net/netip"
	"strings"

	"githubdns/logger"

	"golang.org/x/net/html"
)

// Extractor pulls the address of domain out of a lookup page body.
// It returns "" when the page carries no usable address.
type Extractor interface {
	Extract(body, domain string) string
}

// HTMLExtractor finds the first element named Container whose class list
// contains Class, and returns the first IPv4 literal among its Item children.
// Zero fields select the ipaddress.com layout: ul.comma-separated > li.
type HTMLExtractor struct {
	Container string
	Class     string
	Item      string
}

func (e HTMLExtractor) selector() (container, class, item string) {
	container, class, item = e.Container, e.Class, e.Item
	if container == "" {
		container = "ul"
	}
	if class == "" {
		class = "comma-separated"
	}
	if item == "" {
		item = "li"
	}
	return
}

// Extract implements Extractor.
func (e HTMLExtractor) Extract(body, domain string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		logger.Warn("cannot parse lookup page", "domain", domain, "err", err)
		return ""
	}

	container, class, item := e.selector()
	list := findElement(doc, container, class)
	if list == nil {
		logger.Warn("lookup page has no address list", "domain", domain, "body", body)
		return ""
	}

	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != item {
			continue
		}
		addr, err := netip.ParseAddr(strings.TrimSpace(textContent(c)))
		if err != nil || !addr.Is4() {
			continue
		}
		return addr.String()
	}
	return ""
}

// findElement returns the first element in document order named tag whose
// class attribute holds class as one of its tokens.
func findElement(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(a.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
