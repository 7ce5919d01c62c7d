package takeout

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// cellSelector matches the outer content cell of each watch-history record.
const cellSelector = "div.content-cell.mdl-cell.mdl-cell--6-col.mdl-typography--body-1"

// Parse extracts watch-history entries from an export document.
// contentType may be empty; the charset is then sniffed from the document.
func Parse(r io.Reader, contentType string) ([]Entry, error) {
	if contentType == "" {
		contentType = "text/html"
	}

	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		utf8Reader = r
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}

	entries := make([]Entry, 0)
	doc.Find(cellSelector).Each(func(_ int, cell *goquery.Selection) {
		if entry, ok := parseCell(cell); ok {
			entries = append(entries, entry)
		}
	})

	return entries, nil
}

// ParseFile opens and parses an export file. Percent-encoded paths
// (as copied from a file:// URL) are decoded first.
func ParseFile(path string) ([]Entry, error) {
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}

	f, err := os.Open(path) // #nosec G304 -- path is supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, "")
}

func parseCell(cell *goquery.Selection) (Entry, bool) {
	links := cell.Find("a")
	if links.Length() == 0 {
		return Entry{}, false
	}

	video := links.First()
	entry := Entry{
		Title: strings.TrimSpace(video.Text()),
	}
	entry.Link, _ = video.Attr("href")

	if links.Length() > 1 {
		channel := links.Eq(1)
		entry.Channel = strings.TrimSpace(channel.Text())
		entry.ChannelLink, _ = channel.Attr("href")
	}

	if len(cell.Nodes) > 0 {
		lines := textLines(cell.Nodes[0])
		if len(lines) > 0 {
			entry.RawTimestamp = lines[len(lines)-1]
		}
	}

	return entry, true
}

// textLines returns the non-blank lines of every text node below n,
// in document order.
func textLines(n *html.Node) []string {
	var lines []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return lines
}
