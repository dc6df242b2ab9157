// Package template renders the prompts sent to the model: the count
// estimate, the generation request and the per-format instructions.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/frherrer/tcgen/internal/domain"
)

//go:embed templates/*.tmpl
var builtin embed.FS

const (
	estimateTemplate = "estimate"
	generateTemplate = "generate"
	formatPrefix     = "format_"
)

// PromptEngine renders prompts for both pipeline stages.
type PromptEngine interface {
	EstimatePrompt(requirements string) (string, error)
	GeneratePrompt(count int, format domain.Format, requirements string) (string, error)
	ListTemplates() []string
}

type estimateData struct {
	Requirements string
}

type generateData struct {
	Count              int
	Format             domain.Format
	FormatLabel        string
	Requirements       string
	FormatInstructions string
}

// DefaultEngine implements PromptEngine.
type DefaultEngine struct {
	templates map[string]*template.Template
}

// NewEngine loads the built-in templates, then any .tmpl files in
// overrideDir with the same or new names. An empty overrideDir uses only
// the built-ins.
func NewEngine(overrideDir string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates: make(map[string]*template.Template),
	}

	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, domain.NewError(domain.KindTemplate, "", "failed to open built-in templates", err)
	}
	if err := engine.loadTemplates(sub, "built-in"); err != nil {
		return nil, err
	}

	if overrideDir != "" {
		if err := engine.loadTemplates(os.DirFS(overrideDir), overrideDir); err != nil {
			return nil, err
		}
	}

	for _, required := range []string{estimateTemplate, generateTemplate} {
		if _, ok := engine.templates[required]; !ok {
			return nil, domain.NewError(domain.KindTemplate, overrideDir,
				fmt.Sprintf("required template %q missing", required), nil)
		}
	}
	return engine, nil
}

// loadTemplates reads all .tmpl files at the root of fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError(domain.KindTemplate, origin, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError(domain.KindTemplate, path, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError(domain.KindTemplate, path, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}
	return nil
}

// EstimatePrompt renders the count-estimation prompt.
func (e *DefaultEngine) EstimatePrompt(requirements string) (string, error) {
	return e.execute(estimateTemplate, estimateData{Requirements: requirements})
}

// GeneratePrompt renders the generation prompt with the instructions for
// format embedded.
func (e *DefaultEngine) GeneratePrompt(count int, format domain.Format, requirements string) (string, error) {
	instructions, err := e.execute(formatPrefix+string(format), nil)
	if err != nil {
		return "", err
	}
	return e.execute(generateTemplate, generateData{
		Count:              count,
		Format:             format,
		FormatLabel:        format.Label(),
		Requirements:       requirements,
		FormatInstructions: instructions,
	})
}

// ListTemplates returns the loaded template names, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *DefaultEngine) execute(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError(domain.KindTemplate, "",
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError(domain.KindTemplate, name, "failed to execute template", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
