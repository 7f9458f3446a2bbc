package main

import (
	"errors"
	"fmt"
	"path/filepath"

	loretex "github.com/esther-poniatowski/loretex"
	"github.com/esther-poniatowski/loretex/internal/assembly"
	"github.com/esther-poniatowski/loretex/internal/fileutil"
	"github.com/esther-poniatowski/loretex/internal/spec"
)

// ErrNoSpec is returned when no specification file is given.
var ErrNoSpec = errors.New("no specification file: use --spec <path>")

// runConvert converts every chapter named by the specification and, when a
// template is configured, assembles the main document.
func runConvert(args []string, deps *Dependencies) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return err
	}

	specPath := flags.spec
	if specPath == "" && len(positional) > 0 {
		specPath = positional[0]
	}
	if specPath == "" {
		return ErrNoSpec
	}

	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}
	if flags.output != "" {
		s = withOutputDir(s, flags.output)
	}
	if err := fileutil.EnsureDir(s.OutputDir); err != nil {
		return err
	}

	baseConfig, err := baseConversionConfig(s)
	if err != nil {
		return err
	}
	converter, err := loretex.NewConverter(loretex.WithConfig(baseConfig))
	if err != nil {
		return err
	}

	workers := resolveWorkers(flags.workers, len(s.Chapters))
	if flags.common.verbose {
		fmt.Fprintf(deps.Stderr, "Workers: %d\n", workers)
	}

	outputs, err := convertChapters(converter, s, workers, flags.common.quiet, deps)
	if err != nil {
		return err
	}

	if s.TemplatePath != "" {
		mainPath, err := assembleMain(s, outputs)
		if err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(deps.Stdout, "Assembled %s\n", mainPath)
		}
	}
	return nil
}

func convertChapter(converter *loretex.Converter, chapter spec.Chapter) (string, error) {
	source, err := fileutil.ReadText(chapter.MarkdownPath)
	if err != nil {
		return "", err
	}

	overrides := chapter.Options
	if !hasAnchorOverride(overrides) {
		overrides = withAnchorOverride(overrides, chapter.AnchorLevel)
	}

	latex, err := converter.ConvertString(source, overrides)
	if err != nil {
		return "", err
	}
	if err := fileutil.WriteText(chapter.TexOutput, latex); err != nil {
		return "", err
	}
	return chapter.TexOutput, nil
}

// baseConversionConfig builds the run-wide configuration from the spec's
// conversion section. The spec's top-level anchor_level applies unless the
// conversion section sets its own.
func baseConversionConfig(s *spec.Spec) (*loretex.ConversionConfig, error) {
	config, err := loretex.ConfigFromMap(s.Conversion)
	if err != nil {
		return nil, err
	}
	if !hasAnchorOverride(s.Conversion) {
		config, err = config.WithOverrides(map[string]any{
			"headings": map[string]any{"anchor_level": s.AnchorLevel},
		})
		if err != nil {
			return nil, err
		}
	}
	return config, nil
}

func hasAnchorOverride(data map[string]any) bool {
	headings, ok := data["headings"].(map[string]any)
	if !ok {
		return false
	}
	_, present := headings["anchor_level"]
	return present
}

// withAnchorOverride layers an anchor level onto overrides without
// mutating the original maps.
func withAnchorOverride(overrides map[string]any, anchorLevel int) map[string]any {
	updated := make(map[string]any, len(overrides)+1)
	for key, value := range overrides {
		updated[key] = value
	}
	headings := make(map[string]any)
	if existing, ok := updated["headings"].(map[string]any); ok {
		for key, value := range existing {
			headings[key] = value
		}
	}
	headings["anchor_level"] = anchorLevel
	updated["headings"] = headings
	return updated
}

func assembleMain(s *spec.Spec, outputs []string) (string, error) {
	return assembly.Assemble(assembly.Plan{
		ChapterOutputs: outputs,
		TemplatePath:   s.TemplatePath,
		MainOutput:     s.MainOutput,
		TemplateVars:   templateVars(s),
	})
}

// templateVars builds the substitution map for main-document assembly.
// Explicit template_vars entries override the derived values.
func templateVars(s *spec.Spec) map[string]string {
	documentFont := s.DocumentFont
	if documentFont == "" {
		documentFont = `\renewcommand{\familydefault}{\sfdefault}`
	}
	calloutTitleFont := s.CalloutTitleFont
	if calloutTitleFont == "" {
		calloutTitleFont = `\sffamily\bfseries`
	}
	calloutBodyFont := s.CalloutBodyFont
	if calloutBodyFont == "" {
		calloutBodyFont = `\sffamily`
	}

	vars := map[string]string{
		"document_font":      documentFont,
		"title":              braceIfSet(s.Title),
		"author":             braceIfSet(s.Author),
		"date":               braceIfSet(s.Date),
		"bibliography":       s.Bibliography,
		"callout_title_font": `\renewcommand{\loretexcallouttitlefont}{` + calloutTitleFont + `}`,
		"callout_body_font":  `\renewcommand{\loretexcalloutbodyfont}{` + calloutBodyFont + `}`,
	}
	for key, value := range s.TemplateVars {
		vars[key] = value
	}
	return vars
}

func braceIfSet(value string) string {
	if value == "" {
		return ""
	}
	return "{" + value + "}"
}

// withOutputDir rebinds the spec's output directory, rederiving chapter
// output paths.
func withOutputDir(s *spec.Spec, outputDir string) *spec.Spec {
	updated := *s
	updated.OutputDir = outputDir
	updated.MainOutput = filepath.Join(outputDir, spec.DefaultMainOutput)
	updated.Chapters = make([]spec.Chapter, len(s.Chapters))
	for i, chapter := range s.Chapters {
		chapter.TexOutput = filepath.Join(outputDir, fileutil.StemOf(chapter.MarkdownPath)+".tex")
		updated.Chapters[i] = chapter
	}
	return &updated
}
