package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"enrolinvitation/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer implements domain.EmailTemplateRenderer using template files.
type templateRenderer struct {
	fs fs.FS
}

// NewTemplateRenderer returns an EmailTemplateRenderer that loads templates from the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{fs: templateFS}
}

// Render executes the named template (e.g. "invitation") with data and returns the html and text bodies.
// When no "<name>.txt" template exists the text body is derived from the html body.
func (r *templateRenderer) Render(templateName string, data any) (htmlBody, textBody string, err error) {
	htmlBody, err = r.renderFile(templateName+".html", data, true)
	if err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(templateName+".txt", data, false)
	if errors.Is(err, fs.ErrNotExist) {
		textBody, err = htmlToText(htmlBody)
	}
	if err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return htmlBody, strings.TrimSpace(textBody), nil
}

func (r *templateRenderer) renderFile(name string, data any, html bool) (string, error) {
	raw, err := fs.ReadFile(r.fs, "templates/"+name)
	if err != nil {
		return "", err
	}
	tmplStr := string(raw)
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(tmplStr)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Parse(tmplStr)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func htmlToText(htmlBody string) (string, error) {
	md, err := htmltomarkdown.ConvertString(htmlBody)
	if err != nil {
		return "", fmt.Errorf("convert html to text: %w", err)
	}
	return md, nil
}
