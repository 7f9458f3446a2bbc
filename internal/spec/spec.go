// Package spec loads and validates the YAML specification file driving a
// multi-chapter conversion run.
package spec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/esther-poniatowski/loretex/internal/fileutil"
	"github.com/esther-poniatowski/loretex/internal/yamlutil"
)

// ErrInvalidSpec marks any specification validation failure.
var ErrInvalidSpec = errors.New("invalid specification")

// Defaults applied when the specification omits the field.
const (
	DefaultOutputDir   = "./tex"
	DefaultAnchorLevel = 1
	DefaultMainOutput  = "main.tex"
)

// Chapter is a single Markdown document to convert.
type Chapter struct {
	// MarkdownPath is the source file named by the spec entry.
	MarkdownPath string
	// TexOutput is the derived output path: output_dir/<stem>.tex.
	TexOutput string
	// AnchorLevel is the heading level mapped to \section for this chapter.
	AnchorLevel int
	// Options carries the raw spec entry, applied as per-chapter conversion
	// overrides. Keys that name no conversion setting are ignored.
	Options map[string]any
}

// Spec is a parsed and validated specification file.
type Spec struct {
	OutputDir        string
	AnchorLevel      int
	TemplatePath     string
	MainOutput       string
	Title            string
	Author           string
	Date             string
	Bibliography     string
	DocumentFont     string
	CalloutTitleFont string
	CalloutBodyFont  string
	TemplateVars     map[string]string
	// Conversion holds the global conversion configuration section, kept
	// raw so callers can layer chapter overrides on top.
	Conversion map[string]any
	Chapters   []Chapter
}

// Load reads, parses, and validates the specification at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading specification %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates specification YAML. Validation collects every
// problem before failing, so one run surfaces all of them.
func Parse(data []byte) (*Spec, error) {
	var raw map[string]any
	if err := yamlutil.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	return build(raw), nil
}

// knownSpecKeys lists the accepted top-level keys. Anything else is a
// validation error, so a typo'd key cannot silently drop a whole section.
var knownSpecKeys = map[string]bool{
	"output_dir":         true,
	"anchor_level":       true,
	"template":           true,
	"main_output":        true,
	"title":              true,
	"author":             true,
	"date":               true,
	"bibliography":       true,
	"document_font":      true,
	"callout_title_font": true,
	"callout_body_font":  true,
	"template_vars":      true,
	"conversion":         true,
	"chapters":           true,
}

func validate(raw map[string]any) error {
	var problems []string

	var unknown []string
	for key := range raw {
		if !knownSpecKeys[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		problems = append(problems, fmt.Sprintf("unknown key: %s", key))
	}

	requireString := func(key string) {
		if value, ok := raw[key]; ok {
			if _, isString := value.(string); !isString {
				problems = append(problems, key+" must be a string")
			}
		}
	}

	requireString("output_dir")
	requireString("main_output")
	requireString("title")
	requireString("author")
	requireString("date")
	requireString("document_font")
	requireString("callout_title_font")
	requireString("callout_body_font")

	if value, ok := raw["anchor_level"]; ok {
		if !isInt(value) {
			problems = append(problems, "anchor_level must be an integer")
		}
	}
	if value, ok := raw["template"]; ok {
		path, isString := value.(string)
		if !isString {
			problems = append(problems, "template must be a string path")
		} else if !fileutil.FileExists(path) {
			problems = append(problems, fmt.Sprintf("template not found: %s", path))
		}
	}
	if value, ok := raw["bibliography"]; ok {
		switch value.(type) {
		case string, []any:
		default:
			problems = append(problems, "bibliography must be a string or list of strings")
		}
	}
	if value, ok := raw["template_vars"]; ok {
		if _, isMap := value.(map[string]any); !isMap {
			problems = append(problems, "template_vars must be a mapping")
		}
	}
	if value, ok := raw["conversion"]; ok {
		if _, isMap := value.(map[string]any); !isMap {
			problems = append(problems, "conversion must be a mapping")
		}
	}

	if value, ok := raw["chapters"]; ok {
		entries, isList := value.([]any)
		if !isList {
			problems = append(problems, "chapters must be a list")
		} else {
			for idx, entry := range entries {
				chapter, isMap := entry.(map[string]any)
				if !isMap {
					problems = append(problems, fmt.Sprintf("chapters[%d] must be a mapping", idx))
					continue
				}
				file, present := chapter["file"]
				if !present {
					problems = append(problems, fmt.Sprintf("chapters[%d] missing required 'file'", idx))
				} else if _, isString := file.(string); !isString {
					problems = append(problems, fmt.Sprintf("chapters[%d].file must be a string", idx))
				}
				if anchor, present := chapter["anchor_level"]; present && !isInt(anchor) {
					problems = append(problems, fmt.Sprintf("chapters[%d].anchor_level must be an integer", idx))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalidSpec, strings.Join(problems, "\n- "))
	}
	return nil
}

func build(raw map[string]any) *Spec {
	s := &Spec{
		OutputDir:        stringOr(raw, "output_dir", DefaultOutputDir),
		AnchorLevel:      intOr(raw, "anchor_level", DefaultAnchorLevel),
		TemplatePath:     stringOr(raw, "template", ""),
		MainOutput:       stringOr(raw, "main_output", ""),
		Title:            stringOr(raw, "title", ""),
		Author:           stringOr(raw, "author", ""),
		Date:             stringOr(raw, "date", ""),
		Bibliography:     bibliographyOf(raw),
		DocumentFont:     stringOr(raw, "document_font", ""),
		CalloutTitleFont: stringOr(raw, "callout_title_font", ""),
		CalloutBodyFont:  stringOr(raw, "callout_body_font", ""),
		TemplateVars:     templateVarsOf(raw),
	}

	if conversion, ok := raw["conversion"].(map[string]any); ok {
		s.Conversion = conversion
	}
	if s.MainOutput == "" {
		s.MainOutput = filepath.Join(s.OutputDir, DefaultMainOutput)
	}

	if entries, ok := raw["chapters"].([]any); ok {
		for _, entry := range entries {
			chapter := entry.(map[string]any)
			markdownPath := chapter["file"].(string)
			s.Chapters = append(s.Chapters, Chapter{
				MarkdownPath: markdownPath,
				TexOutput:    filepath.Join(s.OutputDir, fileutil.StemOf(markdownPath)+".tex"),
				AnchorLevel:  intOr(chapter, "anchor_level", s.AnchorLevel),
				Options:      chapter,
			})
		}
	}
	return s
}

func stringOr(m map[string]any, key, fallback string) string {
	if value, ok := m[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func intOr(m map[string]any, key string, fallback int) int {
	switch value := m[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case uint64:
		return int(value)
	}
	return fallback
}

func isInt(value any) bool {
	switch value.(type) {
	case int, int64, uint64:
		return true
	}
	return false
}

// bibliographyOf accepts a single path or a list, joined with commas the
// way \bibliography expects.
func bibliographyOf(raw map[string]any) string {
	switch value := raw["bibliography"].(type) {
	case string:
		return value
	case []any:
		parts := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	}
	return ""
}

func templateVarsOf(raw map[string]any) map[string]string {
	value, ok := raw["template_vars"].(map[string]any)
	if !ok {
		return nil
	}
	vars := make(map[string]string, len(value))
	for key, entry := range value {
		vars[key] = fmt.Sprint(entry)
	}
	return vars
}
