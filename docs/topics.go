// Package docs holds the documentation topics of fisc, as embedded markdown files.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var docs embed.FS

// Topic is a documentation topic.
type Topic struct {
	Name  string
	Title string
}

// Get returns the content of a documentation topic, or of all topics for "*".
func Get(topic string) (string, error) {
	if topic == "*" {
		return GetAll()
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetAll returns the content of all topics concatenated together.
func GetAll() (string, error) {
	topics, err := List()
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	for _, t := range topics {
		content, err := Get(t.Name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Names returns the sorted names of the topics.
func Names() ([]string, error) {
	matches, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".md")
		if name == "readme" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// List returns the topics with their title, the first heading of the topic.
func List() ([]Topic, error) {
	names, err := Names()
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		content, err := docs.ReadFile(name + ".md")
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content)})
	}
	return topics, nil
}

// title returns the text of the first heading of a markdown document.
func title(source []byte) string {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	var t string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		t = strings.TrimSpace(b.String())
		return ast.WalkStop, nil
	})
	return t
}
