// Package htmltext reduces HTML pasted into an entry to plain text.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagPattern = regexp.MustCompile(`(?i)</?(p|div|br|span|b|i|em|strong|ul|ol|li|h[1-6]|blockquote|a|html|body)\b[^>]*>`)

// skipTags hold no readable content
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "head": true, "template": true,
}

// blockTags end a line of text
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// LooksLikeHTML reports whether s contains common markup tags
func LooksLikeHTML(s string) bool {
	return tagPattern.MatchString(s)
}

// Extract parses HTML and returns its readable text. Paragraph breaks are kept
// as newlines; runs of spaces inside a line are collapsed.
func Extract(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var sb strings.Builder
	var extract func(*html.Node)

	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}

	extract(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Normalize returns plain text for content, extracting it from HTML when needed
func Normalize(content string) string {
	if !LooksLikeHTML(content) {
		return content
	}
	return Extract(content)
}
