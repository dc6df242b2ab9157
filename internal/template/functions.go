package template

import (
	"strings"
	"text/template"
)

const codeFence = "```"

// CustomFuncMap returns the functions available to prompt templates. The
// embedded templates only use fence; toUpper and trimSpace are there for
// override templates loaded from templates.directory.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		// fence delimits user text with triple backticks on the same line.
		"fence": func(s string) string {
			return codeFence + s + codeFence
		},
	}
}
