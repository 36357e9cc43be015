package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Snapshot returns the accessibility tree of the current page as
// indented text, the model's view of page state. When the aria snapshot
// is unavailable (some pages break it), a plain-text outline built from
// the page HTML is returned instead.
func (b *Browser) Snapshot() (string, error) {
	tree, err := b.page.Locator("body").AriaSnapshot()
	if err == nil {
		return tree, nil
	}
	b.warnf("aria snapshot failed, falling back to HTML outline: %v", err)

	content, contentErr := b.page.Content()
	if contentErr != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}

	outline, outlineErr := buildOutline(content)
	if outlineErr != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", outlineErr)
	}
	return outline, nil
}

// skippedElements are noise that never contributes to the outline.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"svg":      true,
	"head":     true,
}

// buildOutline extracts an interaction-oriented outline from raw HTML:
// headings, links, buttons, form fields, and labels, one per line in
// document order. It approximates the shape of an aria snapshot closely
// enough for the model to pick targets.
func buildOutline(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	outlineNode(doc, &builder)
	return strings.TrimRight(builder.String(), "\n"), nil
}

func outlineNode(n *html.Node, builder *strings.Builder) {
	if n.Type == html.ElementNode {
		name := strings.ToLower(n.Data)
		if skippedElements[name] {
			return
		}
		if line := outlineLine(n, name); line != "" {
			builder.WriteString(line)
			builder.WriteByte('\n')
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		outlineNode(child, builder)
	}
}

func outlineLine(n *html.Node, name string) string {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return fmt.Sprintf("- heading %q [level=%c]", nodeText(n), name[1])
	case "a":
		if text := nodeText(n); text != "" {
			return fmt.Sprintf("- link %q", text)
		}
	case "button":
		return fmt.Sprintf("- button %q", nodeText(n))
	case "label":
		if text := nodeText(n); text != "" {
			return fmt.Sprintf("- label %q", text)
		}
	case "input":
		inputType := attr(n, "type")
		if inputType == "hidden" {
			return ""
		}
		if inputType == "" {
			inputType = "text"
		}
		desc := fmt.Sprintf("- input [type=%s]", inputType)
		if placeholder := attr(n, "placeholder"); placeholder != "" {
			desc += fmt.Sprintf(" placeholder=%q", placeholder)
		}
		if fieldName := attr(n, "name"); fieldName != "" {
			desc += fmt.Sprintf(" name=%q", fieldName)
		}
		return desc
	case "textarea":
		desc := "- textarea"
		if placeholder := attr(n, "placeholder"); placeholder != "" {
			desc += fmt.Sprintf(" placeholder=%q", placeholder)
		}
		return desc
	case "select":
		desc := "- combobox"
		if fieldName := attr(n, "name"); fieldName != "" {
			desc += fmt.Sprintf(" name=%q", fieldName)
		}
		return desc
	}
	return ""
}

// nodeText collects the text content beneath a node, whitespace
// collapsed.
func nodeText(n *html.Node) string {
	var builder strings.Builder
	collectText(n, &builder)
	return strings.Join(strings.Fields(builder.String()), " ")
}

func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.TextNode {
		builder.WriteString(n.Data)
		builder.WriteByte(' ')
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
