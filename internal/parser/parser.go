// Package parser converts notes to and from Markdown files with YAML frontmatter.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/secondbrain/internal/models"
)

const delim = "---"

// frontmatter is the on-disk header of a note file.
type frontmatter struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Category string        `yaml:"category"`
	Tags     []string      `yaml:"tags,omitempty"`
	Favorite bool          `yaml:"favorite"`
	Created  string        `yaml:"created"`
	Links    []models.Link `yaml:"links,omitempty"`
}

// Encode renders n as frontmatter followed by the note content.
func Encode(n models.Note) ([]byte, error) {
	fm := frontmatter{
		ID:       n.ID,
		Title:    n.Title,
		Category: n.Category.String(),
		Tags:     n.Tags,
		Favorite: n.IsFavorite,
		Links:    n.Links,
	}
	if !n.CreatedAt.IsZero() {
		fm.Created = n.CreatedAt.Format(time.RFC3339Nano)
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	buf.Write(head)
	buf.WriteString(delim + "\n")
	buf.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Decode reads a note file. Fields missing from the frontmatter are left for
// the caller to fill: an empty ID and a zero CreatedAt. A missing title falls
// back to the first H1 heading; a missing or unknown category becomes Other.
func Decode(data []byte) (models.Note, error) {
	head, body, ok := splitFrontmatter(data)

	var fm frontmatter
	if ok {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return models.Note{}, fmt.Errorf("parser: decode frontmatter: %w", err)
		}
	}

	n := models.Note{
		ID:         strings.TrimSpace(fm.ID),
		Title:      strings.TrimSpace(fm.Title),
		Content:    strings.TrimSpace(body),
		Tags:       fm.Tags,
		IsFavorite: fm.Favorite,
		Links:      fm.Links,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Title == "" {
		n.Title = firstHeading(body)
	}

	cat, err := models.ParseCategory(fm.Category)
	if err != nil {
		cat = models.CategoryOther
	}
	n.Category = cat

	if fm.Created != "" {
		ts, err := time.Parse(time.RFC3339Nano, fm.Created)
		if err != nil {
			return models.Note{}, fmt.Errorf("parser: created %q: %w", fm.Created, err)
		}
		n.CreatedAt = ts
	}
	return n, nil
}

// splitFrontmatter separates the YAML block between leading --- lines from
// the body. Without a well-formed block the whole input is body.
func splitFrontmatter(data []byte) ([]byte, string, bool) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), false
	}

	head := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return head, body, true
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
