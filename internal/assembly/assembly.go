// Package assembly generates the main LaTeX document that stitches
// converted chapters together through a user template.
package assembly

import (
	"path/filepath"
	"strings"

	"github.com/esther-poniatowski/loretex/internal/fileutil"
)

// Plan describes how to assemble a main LaTeX document.
type Plan struct {
	ChapterOutputs []string
	TemplatePath   string
	MainOutput     string
	TemplateVars   map[string]string
}

// BuildInputs renders one \input line per chapter output. Only the file
// name is used; the main document sits in the same directory as the
// chapters.
func BuildInputs(chapterOutputs []string) string {
	lines := make([]string, len(chapterOutputs))
	for i, output := range chapterOutputs {
		lines[i] = "\\input{" + filepath.Base(output) + "}"
	}
	return strings.Join(lines, "\n")
}

// RenderTemplate substitutes {{key}} placeholders with values. Unknown
// placeholders are left in place so template errors stay visible in the
// output.
func RenderTemplate(templateText string, values map[string]string) string {
	for key, value := range values {
		templateText = strings.ReplaceAll(templateText, "{{"+key+"}}", value)
	}
	return templateText
}

// Assemble renders the template with the chapter \input lines bound to
// {{content}} and writes the main document. Returns the written path.
func Assemble(plan Plan) (string, error) {
	templateText, err := fileutil.ReadText(plan.TemplatePath)
	if err != nil {
		return "", err
	}

	values := map[string]string{"content": BuildInputs(plan.ChapterOutputs)}
	for key, value := range plan.TemplateVars {
		values[key] = value
	}

	rendered := RenderTemplate(templateText, values)
	if err := fileutil.WriteText(plan.MainOutput, rendered); err != nil {
		return "", err
	}
	return plan.MainOutput, nil
}
