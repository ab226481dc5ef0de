package parse

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

type frontMatter struct {
	Title  string  `yaml:"title"`
	Author string  `yaml:"author"`
	Date   string  `yaml:"date"`
	Tags   tagList `yaml:"tags"`
}

// tagList accepts both `tags: [a, b]` and `tags: a`
type tagList []string

func (t *tagList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag != "!!null" && node.Value != "" {
			*t = tagList{node.Value}
		}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*t = list
	return nil
}

// yamlKey matches a line opening a YAML mapping entry
var yamlKey = regexp.MustCompile(`^[A-Za-z_][\w-]*\s*:`)

// SplitFrontMatter separates a leading `---` fenced YAML block from the
// markdown body. Content without front matter is returned unchanged; a
// fenced block that is not a YAML mapping is a thematic break followed by
// markdown, not front matter.
func SplitFrontMatter(content string) (mdast.Meta, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(strings.TrimPrefix(lines[0], "\ufeff")) != "---" {
		return mdast.Meta{}, content, nil
	}

	// Find end of front matter
	end := -1
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "---" || trimmed == "..." {
			end = i
			break
		}
	}
	if end == -1 {
		return mdast.Meta{}, content, nil
	}

	block := lines[1:end]
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &doc); err != nil {
		// Broken YAML is only an error when the block reads as a mapping.
		if !yamlKey.MatchString(firstNonBlank(block)) {
			return mdast.Meta{}, content, nil
		}
		return mdast.Meta{}, content, fmt.Errorf("invalid front matter: %w", err)
	}

	var fm frontMatter
	if len(doc.Content) > 0 {
		if doc.Content[0].Kind != yaml.MappingNode {
			return mdast.Meta{}, content, nil
		}
		if err := doc.Content[0].Decode(&fm); err != nil {
			return mdast.Meta{}, content, fmt.Errorf("invalid front matter: %w", err)
		}
	}

	body := lines[end+1:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}

	return mdast.Meta{
		Title:  fm.Title,
		Author: fm.Author,
		Date:   fm.Date,
		Tags:   []string(fm.Tags),
	}, strings.Join(body, "\n"), nil
}

func firstNonBlank(lines []string) string {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}
