package types

import (
	"fmt"
	"strings"

	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

const indent = "    "

// Docstring collects the title, the description and the examples of a node, separated by blank
// lines. When there are examples, the default value is listed as the first one.
func Docstring(node *schema_node.Node) ([]string, error) {
	var docstring []string
	newParagraph := func() {
		if len(docstring) > 0 {
			docstring = append(docstring, "")
		}
	}

	if node.Title != "" {
		newParagraph()
		docstring = append(docstring, strings.Split(node.Title, "\n")...)
	}

	if node.Description != "" {
		newParagraph()
		docstring = append(docstring, strings.Split(node.Description, "\n")...)
	}

	if len(node.Examples) > 0 {
		examples := node.Examples
		if node.Default != nil {
			examples = append([]schema_node.Literal{*node.Default}, examples...)
		}

		newParagraph()
		docstring = append(docstring, "Examples:")
		for _, example := range examples {
			exampleString, err := RenderLiteral(example)
			if err != nil {
				return nil, fmt.Errorf("render literal (example): %w", err)
			}
			docstring = append(docstring, fmt.Sprintf("%s`%s`", indent, exampleString))
		}
	}

	return docstring, nil
}

// BlockDocstring renders docstring lines as an indented string literal followed by a blank line.
func BlockDocstring(docstring []string) []string {
	if len(docstring) == 0 {
		return nil
	}

	if len(docstring) == 1 {
		return []string{fmt.Sprintf(`%s"""%s"""`, indent, escapeDocstringLine(docstring[0])), ""}
	}

	lines := []string{indent + `"""`}
	for _, line := range docstring {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, indent+escapeDocstringLine(line))
	}
	return append(lines, indent+`"""`, "")
}

// CommentDocstring renders docstring lines as comment lines.
func CommentDocstring(docstring []string) []string {
	var lines []string
	for _, line := range docstring {
		lines = append(lines, strings.TrimRight("# "+line, " "))
	}
	return lines
}

func escapeDocstringLine(line string) string {
	line = strings.ReplaceAll(line, `\`, `\\`)
	if strings.Contains(line, `"""`) || strings.HasSuffix(line, `"`) {
		line = strings.ReplaceAll(line, `"`, `\"`)
	}
	return line
}
