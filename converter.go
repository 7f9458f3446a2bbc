package loretex

import "strings"

// Compile-time interface implementation check.
var _ NodeVisitor = (*LaTeXGenerator)(nil)

// Converter orchestrates the Markdown-to-LaTeX pipeline: front-matter
// stripping, footnote extraction, parsing, transforms, and generation.
// Create with NewConverter and use ConvertString.
type Converter struct {
	config       *ConversionConfig
	parser       *MarkdownParser
	transforms   []Transform
	registry     *Registry
	pendingNames []string
}

// Option customizes a Converter.
type Option func(*Converter)

// WithConfig sets the base conversion configuration.
func WithConfig(config *ConversionConfig) Option {
	return func(c *Converter) { c.config = config }
}

// WithTransforms appends document transforms to run after parsing,
// in the order given.
func WithTransforms(transforms ...Transform) Option {
	return func(c *Converter) { c.transforms = append(c.transforms, transforms...) }
}

// WithRegistry sets the registry used by WithTransformNames. Defaults to
// the package-level registry.
func WithRegistry(registry *Registry) Option {
	return func(c *Converter) { c.registry = registry }
}

// WithTransformNames appends transforms resolved by name from the
// converter's registry. Resolution happens in NewConverter; unknown names
// fail construction with ErrUnknownTransform.
func WithTransformNames(names ...string) Option {
	return func(c *Converter) {
		c.pendingNames = append(c.pendingNames, names...)
	}
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithConfig, WithTransforms,
// WithTransformNames).
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		parser:   NewMarkdownParser(),
		registry: defaultRegistry,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.config == nil {
		c.config = DefaultConfig()
	}

	if len(c.pendingNames) > 0 {
		resolved, err := c.registry.Resolve(c.pendingNames)
		if err != nil {
			return nil, err
		}
		c.transforms = append(c.transforms, resolved...)
		c.pendingNames = nil
	}

	return c, nil
}

// ConvertString converts Markdown source to LaTeX. Overrides, when
// non-empty, are deep-merged over the converter's base configuration for
// this call only.
func (c *Converter) ConvertString(source string, overrides map[string]any) (string, error) {
	config := c.config
	if len(overrides) > 0 {
		merged, err := config.WithOverrides(overrides)
		if err != nil {
			return "", err
		}
		config = merged
	}

	if config.Parsing.StripYAMLFrontMatter {
		source = stripYAMLFrontMatter(source)
	}
	source, footnotes := extractFootnotes(source)

	doc, err := c.parser.Parse(source)
	if err != nil {
		return "", err
	}
	if len(c.transforms) > 0 {
		doc = ApplyTransforms(doc, c.transforms)
	}

	inline := NewInlineTransformer(config, footnotes)
	generator := NewLaTeXGenerator(config, inline)
	return generator.Generate(doc), nil
}

// ConvertString is a convenience helper converting a single document with
// an optional configuration.
func ConvertString(source string, config *ConversionConfig, overrides map[string]any) (string, error) {
	converter, err := NewConverter(WithConfig(config))
	if err != nil {
		return "", err
	}
	return converter.ConvertString(source, overrides)
}

// stripYAMLFrontMatter removes a leading --- delimited block. An unclosed
// block leaves the source untouched.
func stripYAMLFrontMatter(source string) string {
	lines := splitLines(source)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return source
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return source
}

// extractFootnotes removes [^key]: definition lines from the source and
// collects them into a map. A definition's body extends over indented
// continuation lines; interior blank lines are kept, and the collected text
// is trimmed.
func extractFootnotes(source string) (string, map[string]string) {
	lines := splitLines(source)
	if len(lines) == 0 {
		return source, map[string]string{}
	}

	footnotes := make(map[string]string)
	var output []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		if !isFootnoteDefinition(line) {
			output = append(output, line)
			i++
			continue
		}

		key, rest, _ := strings.Cut(line, "]: ")
		key = strings.TrimPrefix(key, "[^")
		content := []string{strings.TrimRight(rest, " \t")}
		i++
		for i < len(lines) {
			next := lines[i]
			if isFootnoteDefinition(next) {
				break
			}
			if strings.TrimSpace(next) == "" {
				content = append(content, "")
				i++
				continue
			}
			if strings.HasPrefix(next, "    ") || strings.HasPrefix(next, "\t") {
				content = append(content, strings.TrimSpace(next))
				i++
				continue
			}
			break
		}
		footnotes[key] = strings.TrimSpace(strings.Join(content, "\n"))
	}
	return strings.Join(output, "\n"), footnotes
}

func isFootnoteDefinition(line string) bool {
	return strings.HasPrefix(line, "[^") && strings.Contains(line, "]: ")
}
