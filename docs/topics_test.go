package docs

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/etnz/fiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics returns the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	content, err := docs.ReadFile("readme.md")
	require.NoError(t, err)

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md exists, and every topic is listed.
	listed := readmeTopics(t)
	for _, topic := range listed {
		_, err := Get(topic)
		assert.NoError(t, err, "topic %q", topic)
	}

	names, err := Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, listed, names)
	assert.NotContains(t, names, "readme")
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("nope")
	assert.ErrorContains(t, err, `topic "nope" not found`)
}

func TestGetAll(t *testing.T) {
	all, err := Get("*")
	require.NoError(t, err)
	names, err := Names()
	require.NoError(t, err)
	for _, name := range names {
		content, err := Get(name)
		require.NoError(t, err)
		assert.Contains(t, all, content)
	}
}

func TestList(t *testing.T) {
	topics, err := List()
	require.NoError(t, err)
	assert.Contains(t, topics, Topic{Name: "boxes", Title: "Declaration boxes"})
	for _, topic := range topics {
		assert.NotEmpty(t, topic.Title, "topic %q has no title", topic.Name)
	}
}

// TestStatementExamples checks that the json examples of the documentation are valid statements.
func TestStatementExamples(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	found := 0
	for _, name := range names {
		source, err := docs.ReadFile(name + ".md")
		require.NoError(t, err)

		root := goldmark.DefaultParser().Parse(text.NewReader(source))
		err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			fcb, ok := n.(*ast.FencedCodeBlock)
			if !entering || !ok || string(fcb.Language(source)) != "json" {
				return ast.WalkContinue, nil
			}
			var b bytes.Buffer
			for i := 0; i < fcb.Lines().Len(); i++ {
				line := fcb.Lines().At(i)
				b.Write(line.Value(source))
			}
			found++
			_, err := fiscal.DecodeStatement(&b)
			assert.NoError(t, err, "%s: invalid statement", name)
			return ast.WalkContinue, nil
		})
		require.NoError(t, err)
	}
	assert.NotZero(t, found)
}
