package parser

import (
	"regexp"
	"strings"
)

// blankLineSep matches two or more consecutive newlines. A line holding
// only spaces does not end a block.
var blankLineSep = regexp.MustCompile(`\n{2,}`)

// SplitBlocks segments raw model output on blank lines. Blocks are trimmed,
// empty ones dropped, and order is preserved.
func SplitBlocks(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var blocks []string
	for _, b := range blankLineSep.Split(raw, -1) {
		b = strings.TrimSpace(b)
		if b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// blockLines returns the trimmed lines of a block.
func blockLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// valueAfterColon returns the trimmed text after the first colon.
func valueAfterColon(line string) string {
	label, v, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return labelValue(label, v)
}

// labelValue trims v. When the label opened bold markup that closes after
// the colon ("**Title:** x"), that closing "**" is dropped; emphasis inside
// the value is kept.
func labelValue(label, v string) string {
	v = strings.TrimSpace(v)
	label = strings.TrimSpace(strings.TrimLeft(label, "- "))
	if strings.HasPrefix(label, "**") && !strings.HasSuffix(label, "**") {
		v = strings.TrimSpace(strings.TrimPrefix(v, "**"))
	}
	return v
}
