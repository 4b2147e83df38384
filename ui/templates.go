package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"ballistix/domain/verdict"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fixed": func(digits int, v float64) string {
			return strconv.FormatFloat(v, 'f', digits, 64)
		},
		"banner": func(s verdict.Status) string {
			switch s {
			case verdict.StatusLethal:
				return s.Label() + " (具有殺傷力)"
			case verdict.StatusNonLethal:
				return s.Label() + " (未達殺傷力標準)"
			default:
				return s.Label()
			}
		},
		"atLeast": func(v, threshold float64) bool { return v >= threshold },
		"yesNo": func(b bool) string {
			if b {
				return "YES"
			}
			return "NO"
		},
	}
}

// render executes a template into a buffer first so errors never produce half a page
func (a *App) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[UI] Template error for %s: %v", name, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[UI] Error writing template response: %v", err)
	}
}

// renderMarkdown converts report Markdown to HTML, dropping any raw HTML in the source
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

func formatParam(v float64) string {
	return fmt.Sprint(v)
}
