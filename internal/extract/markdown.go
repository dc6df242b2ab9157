package extract

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor strips Markdown markup, keeping one paragraph per block.
type MarkdownExtractor struct{}

// NewMarkdownExtractor creates a new MarkdownExtractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *MarkdownExtractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Extract walks the goldmark AST and returns block texts joined by blank
// lines. List items are prefixed with "- ".
func (e *MarkdownExtractor) Extract(content []byte) (string, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var blocks []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			s := inlineText(node, content)
			if _, ok := node.Parent().(*ast.ListItem); ok {
				s = "- " + s
			}
			blocks = append(blocks, s)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}
			blocks = append(blocks, string(bytes.TrimRight(buf.Bytes(), "\n")))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return joinParagraphs(blocks), nil
}

// inlineText concatenates the text segments below n, keeping line breaks.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				buf.Write(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(c.Value)
			case *ast.AutoLink:
				buf.Write(c.URL(source))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
