package notifx

import (
	"bytes"
	"strings"
	"sync"
	"text/template"
)

// TemplateRegistry stores and renders named text templates. Message bodies are
// plain text, so no HTML escaping is applied.
type TemplateRegistry struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
	mu        sync.RWMutex
}

func NewTemplateRegistry(funcs template.FuncMap) *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*template.Template),
		funcs:     funcs,
	}
}

// Register parses and stores a template by name.
func (r *TemplateRegistry) Register(name, tmplString string) error {
	t, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(tmplString)
	if err != nil {
		return notifxErrors.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}

	r.mu.Lock()
	r.templates[name] = t
	r.mu.Unlock()

	return nil
}

// MustRegister is Register for templates compiled into the binary.
func (r *TemplateRegistry) MustRegister(name, tmplString string) {
	if err := r.Register(name, tmplString); err != nil {
		panic(err)
	}
}

// Render executes a named template and trims surrounding whitespace.
func (r *TemplateRegistry) Render(name string, data any) (string, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return "", notifxErrors.New(ErrTemplateNotFound).WithDetail("template", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", notifxErrors.NewWithCause(ErrTemplateRender, err).WithDetail("template", name)
	}

	return strings.TrimSpace(buf.String()), nil
}
