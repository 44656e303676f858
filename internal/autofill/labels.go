package autofill

import (
	"fmt"
	"strings"

	"github.com/jonathan/apply-agent/internal/browser"
)

// labelText resolves the label text associated with a form control: a label
// whose for-attribute references the control's id, falling back to the nearest
// ancestor label element. Both the keyword matcher and the per-ATS strategies
// go through this resolver.
func labelText(root browser.Root, el browser.Element) string {
	if id := el.Attr("id"); id != "" {
		label, err := root.QueryOne(fmt.Sprintf("label[for=%q]", id))
		if err == nil && label != nil {
			return label.Text()
		}
	}

	label, err := el.Closest("label")
	if err == nil && label != nil {
		return label.Text()
	}
	return ""
}

// controlForLabel resolves a label element to the control it describes: the
// for-attribute target when present, otherwise the first form control among
// the label's own descendants.
func controlForLabel(root browser.Root, label browser.Element) browser.Element {
	if forID := label.Attr("for"); forID != "" {
		control, err := root.QueryOne(fmt.Sprintf("[id=%q]", forID))
		if err == nil && control != nil {
			return control
		}
	}

	control, err := label.QueryOne("input, select, textarea")
	if err == nil && control != nil {
		return control
	}
	return nil
}

// findLabelsContaining returns every label whose visible text contains any of
// the given synonyms, ordered by synonym first and document order second, each
// label listed once. Callers walk the candidates until one resolves and fills.
func findLabelsContaining(root browser.Root, synonyms []string) []browser.Element {
	labels, err := root.QueryAll("label")
	if err != nil {
		return nil
	}

	var matched []browser.Element
	seen := make(map[browser.Element]bool, len(labels))
	for _, synonym := range synonyms {
		needle := strings.ToLower(synonym)
		for _, label := range labels {
			if seen[label] || !strings.Contains(strings.ToLower(label.Text()), needle) {
				continue
			}
			seen[label] = true
			matched = append(matched, label)
		}
	}
	return matched
}

// findLabelContaining returns the first candidate label, or nil.
func findLabelContaining(root browser.Root, synonyms []string) browser.Element {
	if labels := findLabelsContaining(root, synonyms); len(labels) > 0 {
		return labels[0]
	}
	return nil
}

// signatureAttrs are the element attributes folded into the match signature.
var signatureAttrs = []string{"name", "id", "placeholder", "aria-label"}

// signature derives the matchable text blob for a form control: the
// concatenation, lower-cased, of its identifying attributes and associated
// label text. Underscores and hyphens are normalized to spaces so that
// attribute-style names ("first_name") match space-separated keywords.
func signature(root browser.Root, el browser.Element) string {
	var parts []string
	for _, attr := range signatureAttrs {
		if v := el.Attr(attr); v != "" {
			parts = append(parts, v)
		}
	}
	if text := labelText(root, el); text != "" {
		parts = append(parts, text)
	}

	joined := strings.ToLower(strings.Join(parts, " "))
	joined = strings.ReplaceAll(joined, "_", " ")
	joined = strings.ReplaceAll(joined, "-", " ")
	return joined
}
