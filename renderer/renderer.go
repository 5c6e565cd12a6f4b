package renderer

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/fiscal"
)

//go:embed templates/*.md
var embedded embed.FS

// templates is the directory of the markdown templates.
var templates, _ = fs.Sub(embedded, "templates")

// RenderSimulation renders a simulation to a markdown string.
func RenderSimulation(s *Simulation) string {
	partials := map[string]string{
		"simulation_title":   "simulation_title.md",
		"simulation_boxes":   "simulation_boxes.md",
		"simulation_notices": "simulation_notices.md",
	}
	return renderTemplate("simulation", "simulation.md", partials, s)
}

// RenderForms renders the equity forms to a markdown string.
func RenderForms(f *Forms) string {
	partials := map[string]string{
		"forms_acquisition": "forms_acquisition.md",
		"forms_capital":     "forms_capital.md",
	}
	return renderTemplate("forms", "forms.md", partials, f)
}

// RenderLedger renders a ledger summary to a markdown string.
func RenderLedger(l *Ledger) string {
	return renderTemplate("ledger", "ledger.md", nil, l)
}

// RenderReport renders a full statement report: the equity forms when any sale
// was replayed, then the simulation.
func RenderReport(r *fiscal.Report) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		f := NewForms(r.Statement.IncomeYear(), r.Acquisition, r.Capital)
		if len(f.Capital) == 0 && len(f.Acquisition) == 0 {
			return false
		}
		fmt.Fprintln(w, RenderForms(f))
		return true
	})
	b.WriteString(RenderSimulation(NewSimulation(r.Result)))
	return b.String()
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
