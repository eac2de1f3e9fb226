package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/a-h/templ"
)

// ErrUnknownKind is returned by Render for a kind with no registered template.
var ErrUnknownKind = errors.New("templates: unknown email kind")

// Rendered is the output of Render.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// Render builds the subject, HTML body and plain-text body for kind.
// It has no side effects.
func Render(ctx context.Context, kind Kind, p Params) (Rendered, error) {
	def, ok := registry[kind]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	p = p.withDefaults()

	html, err := RenderComponent(ctx, Layout(p, htmlBody(def.html, p)))
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s html: %w", kind, err)
	}

	var text bytes.Buffer
	if err := def.text.Execute(&text, p); err != nil {
		return Rendered{}, fmt.Errorf("render %s text: %w", kind, err)
	}

	return Rendered{
		Subject: def.subject(p),
		HTML:    html,
		Text:    strings.TrimSpace(text.String()) + "\n",
	}, nil
}

// RenderComponent renders a templ.Component to a string.
func RenderComponent(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func htmlBody(t *htmltemplate.Template, p Params) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.Execute(w, p)
	})
}

type definition struct {
	subject func(Params) string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

var funcs = map[string]any{
	"abs": func(base, path string) string { return AbsoluteURL(base, path) },
}

func define(kind Kind, subject func(Params) string, html, text string) definition {
	return definition{
		subject: subject,
		html:    htmltemplate.Must(htmltemplate.New(string(kind)).Funcs(funcs).Parse(html)),
		text:    texttemplate.Must(texttemplate.New(string(kind)).Funcs(funcs).Parse(text)),
	}
}

// AbsoluteURL resolves path against base. Absolute URLs are returned unchanged
// and an empty path yields base.
func AbsoluteURL(base, path string) string {
	switch {
	case path == "":
		return base
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
