package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// ErrMissingSlot is returned when a template placeholder has no value
var ErrMissingSlot = errors.New("template slot has no value")

// HTML is markup that is safe to insert into a document verbatim
type HTML string

// Text escapes s so it renders as literal text in element content or a quoted attribute
func Text(s string) HTML {
	return HTML(html.EscapeString(s))
}

// Values maps placeholder names to their document fragments
type Values map[string]HTML

type segment struct {
	literal string
	slot    string
}

// Template is a document split into literal text and {{NAME}} placeholders.
// Execute fills every placeholder in one pass, so inserted values are never rescanned.
type Template struct {
	name     string
	segments []segment
	slots    []string
}

// Parse splits text into literals and placeholders. A placeholder is {{NAME}} where NAME
// is upper-case letters, digits and underscores; anything else is kept as literal text.
func Parse(name, text string) *Template {
	t := &Template{name: name}
	seen := make(map[string]bool)

	var literal strings.Builder
	for len(text) > 0 {
		start := strings.Index(text, "{{")
		if start < 0 {
			literal.WriteString(text)
			break
		}

		end := strings.Index(text[start+2:], "}}")
		if end < 0 || !isSlotName(text[start+2:start+2+end]) {
			literal.WriteString(text[:start+2])
			text = text[start+2:]
			continue
		}

		literal.WriteString(text[:start])
		if literal.Len() > 0 {
			t.segments = append(t.segments, segment{literal: literal.String()})
			literal.Reset()
		}

		slot := text[start+2 : start+2+end]
		t.segments = append(t.segments, segment{slot: slot})
		if !seen[slot] {
			seen[slot] = true
			t.slots = append(t.slots, slot)
		}
		text = text[start+2+end+2:]
	}
	if literal.Len() > 0 {
		t.segments = append(t.segments, segment{literal: literal.String()})
	}

	sort.Strings(t.slots)
	return t
}

func isSlotName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return true
}

// Name returns the template name
func (t *Template) Name() string {
	return t.name
}

// Slots returns the distinct placeholder names in sorted order
func (t *Template) Slots() []string {
	return t.slots
}

// Check reports placeholders that none of the provided names can fill
func (t *Template) Check(provided []string) error {
	known := make(map[string]bool, len(provided))
	for _, p := range provided {
		known[p] = true
	}

	var missing []string
	for _, slot := range t.slots {
		if !known[slot] {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("template %s: %w: %s", t.name, ErrMissingSlot, strings.Join(missing, ", "))
	}
	return nil
}

// Execute writes the filled template to w
func (t *Template) Execute(w io.Writer, values Values) error {
	for _, seg := range t.segments {
		if seg.slot == "" {
			if _, err := io.WriteString(w, seg.literal); err != nil {
				return err
			}
			continue
		}

		value, ok := values[seg.slot]
		if !ok {
			return fmt.Errorf("template %s: %w: %s", t.name, ErrMissingSlot, seg.slot)
		}
		if _, err := io.WriteString(w, string(value)); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the filled template as a string
func (t *Template) Render(values Values) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, values); err != nil {
		return "", err
	}
	return sb.String(), nil
}
