package loretex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// warnHandler receives non-fatal conversion warnings (e.g. a missing image
// target when path validation is enabled). Package-private so tests can
// capture warnings.
var warnHandler = func(msg string) {
	fmt.Fprintln(os.Stderr, "loretex: warning: "+msg)
}

// HeadingConfig holds heading conversion rules.
type HeadingConfig struct {
	AnchorLevel     int
	Commands        map[int]string
	FallbackCommand string
}

// ResolveCommand maps a raw Markdown heading level to a LaTeX sectioning
// command. The level is renormalized against the anchor level and clamped to
// 1; levels beyond the command map fall back to FallbackCommand.
func (c HeadingConfig) ResolveCommand(markdownLevel int) string {
	relative := markdownLevel - c.AnchorLevel + 1
	if relative < 1 {
		relative = 1
	}
	if command, ok := c.Commands[relative]; ok {
		return command
	}
	return c.FallbackCommand
}

// InlineConfig holds inline formatting rules.
type InlineConfig struct {
	BoldCommand            string
	ItalicCommand          string
	CodeCommand            string
	LineBreakCommand       string
	InlineMathTemplate     string
	CustomMarkers          map[string]string
	TextttEscapeMap        map[string]string
	CharacterNormalization [][2]string
}

// LinkConfig holds Markdown link conversion templates.
type LinkConfig struct {
	ExternalLinkTemplate string
	URLOnlyTemplate      string
	AutolinkTemplate     string
	InternalRefTemplate  string
}

func (c LinkConfig) FormatExternal(url, text string) string {
	template := normalizeLinkTemplate(c.ExternalLinkTemplate)
	return formatTemplate(template, map[string]string{"url": url, "text": text})
}

func (c LinkConfig) FormatURLOnly(url string) string {
	template := normalizeLinkTemplate(c.URLOnlyTemplate)
	return formatTemplate(template, map[string]string{"url": url})
}

func (c LinkConfig) FormatAutolink(url string) string {
	template := normalizeLinkTemplate(c.AutolinkTemplate)
	return formatTemplate(template, map[string]string{"url": url})
}

func (c LinkConfig) FormatInternal(label string) string {
	template := normalizeLinkTemplate(c.InternalRefTemplate)
	return formatTemplate(template, map[string]string{"label": label})
}

// CitationConfig holds citation conversion templates.
type CitationConfig struct {
	CiteTemplate            string
	CiteWithLocatorTemplate string
	Separator               string
	MultiCiteSeparator      string
}

// FormatCitation renders one citation call for the given keys.
func (c CitationConfig) FormatCitation(keys []string) string {
	template := normalizeLinkTemplate(c.CiteTemplate)
	return formatTemplate(template, map[string]string{
		"keys": strings.Join(keys, c.Separator),
	})
}

// FormatCitationWithLocator renders a citation call carrying a locator
// (page, section, ...).
func (c CitationConfig) FormatCitationWithLocator(keys []string, locator string) string {
	template := normalizeLinkTemplate(c.CiteWithLocatorTemplate)
	return formatTemplate(template, map[string]string{
		"keys":    strings.Join(keys, c.Separator),
		"locator": locator,
	})
}

// FootnoteConfig holds footnote conversion rules.
type FootnoteConfig struct {
	FootnoteTemplate string
}

func (c FootnoteConfig) FormatFootnote(text string) string {
	template := normalizeLinkTemplate(c.FootnoteTemplate)
	return formatTemplate(template, map[string]string{"text": text})
}

// ImageConfig holds image conversion rules.
type ImageConfig struct {
	PathPrefix     string
	PathSuffix     string
	WidthUnit      string
	IncludeCommand string
	BlockTemplate  string
	BaseDir        string
	ValidatePaths  bool
}

// FormatBlock renders the LaTeX include block for an image. When
// ValidatePaths is set, a missing target produces a warning, never an error.
func (c ImageConfig) FormatBlock(sourcePath string, widthPx int) string {
	include := ensureCommand(c.IncludeCommand)
	prefix := strings.TrimRight(c.PathPrefix, "/")
	if c.ValidatePaths {
		target := filepath.Join(prefix, sourcePath+c.PathSuffix)
		if c.BaseDir != "" {
			target = filepath.Join(c.BaseDir, target)
		}
		if _, err := os.Stat(target); err != nil {
			warnHandler("image not found: " + target)
		}
	}
	return formatTemplate(c.BlockTemplate, map[string]string{
		"include_command": include,
		"width":           strconv.Itoa(widthPx),
		"unit":            c.WidthUnit,
		"path_prefix":     prefix,
		"source":          sourcePath,
		"path_suffix":     c.PathSuffix,
	})
}

// ListConfig holds list environment names.
type ListConfig struct {
	UnorderedEnvironment string
	OrderedEnvironment   string
}

// CodeBlockConfig holds code block environment rules.
type CodeBlockConfig struct {
	Environment     string
	OptionsTemplate string
}

// Begin renders the opening line of the code environment. An options
// template that formats to blank is dropped entirely.
func (c CodeBlockConfig) Begin(language string) string {
	if c.OptionsTemplate == "" {
		return "\\begin{" + c.Environment + "}"
	}
	options := formatTemplate(c.OptionsTemplate, map[string]string{"language": language})
	if strings.TrimSpace(options) == "" {
		return "\\begin{" + c.Environment + "}"
	}
	return "\\begin{" + c.Environment + "}[" + options + "]"
}

func (c CodeBlockConfig) End() string {
	return "\\end{" + c.Environment + "}"
}

// CalloutConfig holds callout conversion rules.
type CalloutConfig struct {
	EnvironmentMap             map[string]string
	DefaultEnvironmentTemplate string
	TitleTemplate              string
	TypeNormalization          string
}

// NormalizeType applies the configured case normalization to a callout type.
func (c CalloutConfig) NormalizeType(calloutType string) string {
	switch c.TypeNormalization {
	case "lower":
		return strings.ToLower(calloutType)
	case "upper":
		return strings.ToUpper(calloutType)
	}
	return calloutType
}

// ResolveEnvironment maps a callout type to its LaTeX environment: explicit
// map first (normalized then raw key), then the default template.
func (c CalloutConfig) ResolveEnvironment(calloutType string) string {
	normalized := c.NormalizeType(calloutType)
	if env, ok := c.EnvironmentMap[normalized]; ok {
		return env
	}
	if env, ok := c.EnvironmentMap[calloutType]; ok {
		return env
	}
	return formatTemplate(c.DefaultEnvironmentTemplate, map[string]string{"type": normalized})
}

// TableConfig holds table rendering rules.
type TableConfig struct {
	Environment      string
	IncludeHlines    bool
	MulticolumnAlign string
	MultirowCommand  string
}

// ParsingConfig holds parsing behavior options.
type ParsingConfig struct {
	StripYAMLFrontMatter bool
}

// MathConfig holds display math rendering rules.
type MathConfig struct {
	BlockStyle string // "dollars" or "brackets"
}

func (c MathConfig) FormatBlock(content string) string {
	if c.BlockStyle == "brackets" {
		return "\\[" + content + "\\]"
	}
	return "$$" + content + "$$"
}

// LabelConfig holds heading label generation rules.
type LabelConfig struct {
	AutoLabelHeadings bool
	LabelTemplate     string
	LabelPrefix       string
	LabelSeparator    string
}

func (c LabelConfig) FormatLabel(label string) string {
	template := normalizeLinkTemplate(c.LabelTemplate)
	return formatTemplate(template, map[string]string{"label": label})
}

// WikiLinkConfig holds wiki-link conversion rules.
type WikiLinkConfig struct {
	LinkTemplate   string
	AliasTemplate  string
	LabelSeparator string
}

func (c WikiLinkConfig) FormatLink(label string) string {
	template := normalizeLinkTemplate(c.LinkTemplate)
	return formatTemplate(template, map[string]string{"label": label})
}

func (c WikiLinkConfig) FormatAlias(label, alias string) string {
	template := normalizeLinkTemplate(c.AliasTemplate)
	return formatTemplate(template, map[string]string{"label": label, "text": alias})
}

// HorizontalRuleConfig holds the thematic break rendering rule.
type HorizontalRuleConfig struct {
	Command string
}

func (c HorizontalRuleConfig) Render() string {
	return c.Command
}

// ConversionConfig aggregates one sub-config per Markdown construct. It is
// a value object: constructed once, never mutated. WithOverrides builds a
// new instance instead of changing the receiver.
type ConversionConfig struct {
	Headings       HeadingConfig
	Inline         InlineConfig
	Links          LinkConfig
	Citations      CitationConfig
	Footnotes      FootnoteConfig
	Images         ImageConfig
	Lists          ListConfig
	CodeBlocks     CodeBlockConfig
	Callouts       CalloutConfig
	Tables         TableConfig
	Parsing        ParsingConfig
	Math           MathConfig
	Labels         LabelConfig
	WikiLinks      WikiLinkConfig
	HorizontalRule HorizontalRuleConfig
}

// DefaultConfig returns the built-in configuration. Default tables are
// copied so the shared defaults can never be mutated through a config.
func DefaultConfig() *ConversionConfig {
	return &ConversionConfig{
		Headings: HeadingConfig{
			AnchorLevel:     1,
			Commands:        copyIntMap(defaultSectionCommands),
			FallbackCommand: "paragraph",
		},
		Inline: InlineConfig{
			BoldCommand:            "textbf",
			ItalicCommand:          "textit",
			CodeCommand:            "texttt",
			LineBreakCommand:       "newline",
			InlineMathTemplate:     defaultInlineMathTemplate,
			CustomMarkers:          map[string]string{},
			TextttEscapeMap:        copyStringMap(defaultTextttEscapeMap),
			CharacterNormalization: copyPairs(defaultCharacterNormalization),
		},
		Links: LinkConfig{
			ExternalLinkTemplate: `\href{{{url}}}{{{text}}}`,
			URLOnlyTemplate:      `\url{{{url}}}`,
			AutolinkTemplate:     `\url{{{url}}}`,
			InternalRefTemplate:  `\ref{{{label}}}`,
		},
		Citations: CitationConfig{
			CiteTemplate:            `\cite{{{keys}}}`,
			CiteWithLocatorTemplate: `\cite[{locator}]{{{keys}}}`,
			Separator:               ",",
			MultiCiteSeparator:      " ",
		},
		Footnotes: FootnoteConfig{
			FootnoteTemplate: `\footnote{{{text}}}`,
		},
		Images: ImageConfig{
			PathPrefix:     defaultFiguresPDFPath,
			PathSuffix:     ".pdf",
			WidthUnit:      `\htmlpx`,
			IncludeCommand: `\includegraphics`,
			BlockTemplate:  defaultImageBlockTemplate,
		},
		Lists: ListConfig{
			UnorderedEnvironment: "itemize",
			OrderedEnvironment:   "enumerate",
		},
		CodeBlocks: CodeBlockConfig{
			Environment: "lstlisting",
		},
		Callouts: CalloutConfig{
			EnvironmentMap:             map[string]string{},
			DefaultEnvironmentTemplate: defaultCalloutEnvTemplate,
			TitleTemplate:              "[{title}]",
			TypeNormalization:          "lower",
		},
		Tables: TableConfig{
			Environment:      "tabular",
			IncludeHlines:    true,
			MulticolumnAlign: "c",
			MultirowCommand:  "multirow",
		},
		Parsing: ParsingConfig{},
		Math:    MathConfig{BlockStyle: "dollars"},
		Labels: LabelConfig{
			LabelTemplate:  `\label{{{label}}}`,
			LabelSeparator: "-",
		},
		WikiLinks: WikiLinkConfig{
			LinkTemplate:   `\ref{{{label}}}`,
			AliasTemplate:  `\ref{{{label}}}`,
			LabelSeparator: "-",
		},
		HorizontalRule: HorizontalRuleConfig{
			Command: defaultHorizontalRule,
		},
	}
}

// ConfigFromMap builds a ConversionConfig from a nested mapping, typically
// decoded from YAML. Missing sections and keys keep their defaults; values
// of the wrong type are errors.
func ConfigFromMap(data map[string]any) (*ConversionConfig, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	headings := subMap(data, "headings")
	inline := subMap(data, "inline")
	links := subMap(data, "links")
	citations := subMap(data, "citations")
	footnotes := subMap(data, "footnotes")
	images := subMap(data, "images")
	lists := subMap(data, "lists", "list")
	codeBlocks := subMap(data, "code_blocks", "code-blocks")
	callouts := subMap(data, "callouts")
	tables := subMap(data, "tables")
	parsing := subMap(data, "parsing")
	math := subMap(data, "math")
	labels := subMap(data, "labels")
	wikiLinks := subMap(data, "wiki_links")
	horizontalRule := subMap(data, "horizontal_rule")

	var err error
	if cfg.Headings.AnchorLevel, err = getInt(headings, "anchor_level", cfg.Headings.AnchorLevel); err != nil {
		return nil, err
	}
	if commands, ok := headings["commands"]; ok {
		coerced, cmdErr := coerceIntMapping(commands)
		if cmdErr != nil {
			return nil, fmt.Errorf("headings.commands: %w", cmdErr)
		}
		if len(coerced) > 0 {
			cfg.Headings.Commands = coerced
		}
	}
	if cfg.Headings.FallbackCommand, err = getString(headings, "fallback_command", cfg.Headings.FallbackCommand); err != nil {
		return nil, err
	}

	if cfg.Inline.BoldCommand, err = getString(inline, "bold_command", cfg.Inline.BoldCommand); err != nil {
		return nil, err
	}
	if cfg.Inline.ItalicCommand, err = getString(inline, "italic_command", cfg.Inline.ItalicCommand); err != nil {
		return nil, err
	}
	if cfg.Inline.CodeCommand, err = getString(inline, "code_command", cfg.Inline.CodeCommand); err != nil {
		return nil, err
	}
	if cfg.Inline.LineBreakCommand, err = getString(inline, "line_break_command", cfg.Inline.LineBreakCommand); err != nil {
		return nil, err
	}
	if cfg.Inline.InlineMathTemplate, err = getString(inline, "inline_math_template", cfg.Inline.InlineMathTemplate); err != nil {
		return nil, err
	}
	if markers, ok := inline["custom_markers"]; ok {
		if cfg.Inline.CustomMarkers, err = coerceStringMapping(markers); err != nil {
			return nil, fmt.Errorf("inline.custom_markers: %w", err)
		}
	}
	if escapes, ok := inline["texttt_escape_map"]; ok {
		coerced, escErr := coerceStringMapping(escapes)
		if escErr != nil {
			return nil, fmt.Errorf("inline.texttt_escape_map: %w", escErr)
		}
		if len(coerced) > 0 {
			cfg.Inline.TextttEscapeMap = coerced
		}
	}
	if pairs, ok := inline["character_normalization"]; ok {
		if cfg.Inline.CharacterNormalization, err = coercePairs(pairs); err != nil {
			return nil, fmt.Errorf("inline.character_normalization: %w", err)
		}
	}

	if cfg.Links.ExternalLinkTemplate, err = getString(links, "external_link_template", cfg.Links.ExternalLinkTemplate); err != nil {
		return nil, err
	}
	if cfg.Links.URLOnlyTemplate, err = getString(links, "url_only_template", cfg.Links.URLOnlyTemplate); err != nil {
		return nil, err
	}
	if cfg.Links.AutolinkTemplate, err = getString(links, "autolink_template", cfg.Links.AutolinkTemplate); err != nil {
		return nil, err
	}
	if cfg.Links.InternalRefTemplate, err = getString(links, "internal_ref_template", cfg.Links.InternalRefTemplate); err != nil {
		return nil, err
	}

	if cfg.Citations.CiteTemplate, err = getString(citations, "cite_template", cfg.Citations.CiteTemplate); err != nil {
		return nil, err
	}
	if cfg.Citations.CiteWithLocatorTemplate, err = getString(citations, "cite_with_locator_template", cfg.Citations.CiteWithLocatorTemplate); err != nil {
		return nil, err
	}
	if cfg.Citations.Separator, err = getString(citations, "separator", cfg.Citations.Separator); err != nil {
		return nil, err
	}
	if cfg.Citations.MultiCiteSeparator, err = getString(citations, "multi_cite_separator", cfg.Citations.MultiCiteSeparator); err != nil {
		return nil, err
	}

	if cfg.Footnotes.FootnoteTemplate, err = getString(footnotes, "footnote_template", cfg.Footnotes.FootnoteTemplate); err != nil {
		return nil, err
	}

	if cfg.Images.PathPrefix, err = getString(images, "path_prefix", cfg.Images.PathPrefix); err != nil {
		return nil, err
	}
	if cfg.Images.PathSuffix, err = getString(images, "path_suffix", cfg.Images.PathSuffix); err != nil {
		return nil, err
	}
	if cfg.Images.WidthUnit, err = getString(images, "width_unit", cfg.Images.WidthUnit); err != nil {
		return nil, err
	}
	if cfg.Images.IncludeCommand, err = getString(images, "include_command", cfg.Images.IncludeCommand); err != nil {
		return nil, err
	}
	if cfg.Images.BlockTemplate, err = getString(images, "block_template", cfg.Images.BlockTemplate); err != nil {
		return nil, err
	}
	if cfg.Images.BaseDir, err = getString(images, "base_dir", cfg.Images.BaseDir); err != nil {
		return nil, err
	}
	if cfg.Images.ValidatePaths, err = getBool(images, "validate_paths", cfg.Images.ValidatePaths); err != nil {
		return nil, err
	}

	if cfg.Lists.UnorderedEnvironment, err = getString(lists, "unordered_environment", cfg.Lists.UnorderedEnvironment); err != nil {
		return nil, err
	}
	if cfg.Lists.OrderedEnvironment, err = getString(lists, "ordered_environment", cfg.Lists.OrderedEnvironment); err != nil {
		return nil, err
	}

	if cfg.CodeBlocks.Environment, err = getString(codeBlocks, "environment", cfg.CodeBlocks.Environment); err != nil {
		return nil, err
	}
	if cfg.CodeBlocks.OptionsTemplate, err = getString(codeBlocks, "options_template", cfg.CodeBlocks.OptionsTemplate); err != nil {
		return nil, err
	}

	if envMap, ok := callouts["environment_map"]; ok {
		if cfg.Callouts.EnvironmentMap, err = coerceStringMapping(envMap); err != nil {
			return nil, fmt.Errorf("callouts.environment_map: %w", err)
		}
	}
	if cfg.Callouts.DefaultEnvironmentTemplate, err = getString(callouts, "default_environment_template", cfg.Callouts.DefaultEnvironmentTemplate); err != nil {
		return nil, err
	}
	if cfg.Callouts.TitleTemplate, err = getString(callouts, "title_template", cfg.Callouts.TitleTemplate); err != nil {
		return nil, err
	}
	if cfg.Callouts.TypeNormalization, err = getString(callouts, "type_normalization", cfg.Callouts.TypeNormalization); err != nil {
		return nil, err
	}

	if cfg.Tables.Environment, err = getString(tables, "environment", cfg.Tables.Environment); err != nil {
		return nil, err
	}
	if cfg.Tables.IncludeHlines, err = getBool(tables, "include_hlines", cfg.Tables.IncludeHlines); err != nil {
		return nil, err
	}
	if cfg.Tables.MulticolumnAlign, err = getString(tables, "multicolumn_align", cfg.Tables.MulticolumnAlign); err != nil {
		return nil, err
	}
	if cfg.Tables.MultirowCommand, err = getString(tables, "multirow_command", cfg.Tables.MultirowCommand); err != nil {
		return nil, err
	}

	if cfg.Parsing.StripYAMLFrontMatter, err = getBool(parsing, "strip_yaml_front_matter", cfg.Parsing.StripYAMLFrontMatter); err != nil {
		return nil, err
	}

	if cfg.Math.BlockStyle, err = getString(math, "block_style", cfg.Math.BlockStyle); err != nil {
		return nil, err
	}

	if cfg.Labels.AutoLabelHeadings, err = getBool(labels, "auto_label_headings", cfg.Labels.AutoLabelHeadings); err != nil {
		return nil, err
	}
	if cfg.Labels.LabelTemplate, err = getString(labels, "label_template", cfg.Labels.LabelTemplate); err != nil {
		return nil, err
	}
	if cfg.Labels.LabelPrefix, err = getString(labels, "label_prefix", cfg.Labels.LabelPrefix); err != nil {
		return nil, err
	}
	if cfg.Labels.LabelSeparator, err = getString(labels, "label_separator", cfg.Labels.LabelSeparator); err != nil {
		return nil, err
	}

	if cfg.WikiLinks.LinkTemplate, err = getString(wikiLinks, "link_template", cfg.WikiLinks.LinkTemplate); err != nil {
		return nil, err
	}
	if cfg.WikiLinks.AliasTemplate, err = getString(wikiLinks, "alias_template", cfg.WikiLinks.AliasTemplate); err != nil {
		return nil, err
	}
	if cfg.WikiLinks.LabelSeparator, err = getString(wikiLinks, "label_separator", cfg.WikiLinks.LabelSeparator); err != nil {
		return nil, err
	}

	if cfg.HorizontalRule.Command, err = getString(horizontalRule, "command", cfg.HorizontalRule.Command); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ToMap projects the configuration into a nested mapping. The projection is
// lossless: ConfigFromMap(cfg.ToMap()) reconstructs an equal config.
func (c *ConversionConfig) ToMap() map[string]any {
	return map[string]any{
		"headings": map[string]any{
			"anchor_level":     c.Headings.AnchorLevel,
			"commands":         copyIntMap(c.Headings.Commands),
			"fallback_command": c.Headings.FallbackCommand,
		},
		"inline": map[string]any{
			"bold_command":            c.Inline.BoldCommand,
			"italic_command":          c.Inline.ItalicCommand,
			"code_command":            c.Inline.CodeCommand,
			"line_break_command":      c.Inline.LineBreakCommand,
			"inline_math_template":    c.Inline.InlineMathTemplate,
			"custom_markers":          copyStringMap(c.Inline.CustomMarkers),
			"texttt_escape_map":       copyStringMap(c.Inline.TextttEscapeMap),
			"character_normalization": copyPairs(c.Inline.CharacterNormalization),
		},
		"links": map[string]any{
			"external_link_template": c.Links.ExternalLinkTemplate,
			"url_only_template":      c.Links.URLOnlyTemplate,
			"autolink_template":      c.Links.AutolinkTemplate,
			"internal_ref_template":  c.Links.InternalRefTemplate,
		},
		"citations": map[string]any{
			"cite_template":              c.Citations.CiteTemplate,
			"cite_with_locator_template": c.Citations.CiteWithLocatorTemplate,
			"separator":                  c.Citations.Separator,
			"multi_cite_separator":       c.Citations.MultiCiteSeparator,
		},
		"footnotes": map[string]any{
			"footnote_template": c.Footnotes.FootnoteTemplate,
		},
		"images": map[string]any{
			"path_prefix":     c.Images.PathPrefix,
			"path_suffix":     c.Images.PathSuffix,
			"width_unit":      c.Images.WidthUnit,
			"include_command": c.Images.IncludeCommand,
			"block_template":  c.Images.BlockTemplate,
			"base_dir":        c.Images.BaseDir,
			"validate_paths":  c.Images.ValidatePaths,
		},
		"lists": map[string]any{
			"unordered_environment": c.Lists.UnorderedEnvironment,
			"ordered_environment":   c.Lists.OrderedEnvironment,
		},
		"code_blocks": map[string]any{
			"environment":      c.CodeBlocks.Environment,
			"options_template": c.CodeBlocks.OptionsTemplate,
		},
		"callouts": map[string]any{
			"environment_map":              copyStringMap(c.Callouts.EnvironmentMap),
			"default_environment_template": c.Callouts.DefaultEnvironmentTemplate,
			"title_template":               c.Callouts.TitleTemplate,
			"type_normalization":           c.Callouts.TypeNormalization,
		},
		"tables": map[string]any{
			"environment":       c.Tables.Environment,
			"include_hlines":    c.Tables.IncludeHlines,
			"multicolumn_align": c.Tables.MulticolumnAlign,
			"multirow_command":  c.Tables.MultirowCommand,
		},
		"parsing": map[string]any{
			"strip_yaml_front_matter": c.Parsing.StripYAMLFrontMatter,
		},
		"math": map[string]any{
			"block_style": c.Math.BlockStyle,
		},
		"labels": map[string]any{
			"auto_label_headings": c.Labels.AutoLabelHeadings,
			"label_template":      c.Labels.LabelTemplate,
			"label_prefix":        c.Labels.LabelPrefix,
			"label_separator":     c.Labels.LabelSeparator,
		},
		"wiki_links": map[string]any{
			"link_template":   c.WikiLinks.LinkTemplate,
			"alias_template":  c.WikiLinks.AliasTemplate,
			"label_separator": c.WikiLinks.LabelSeparator,
		},
		"horizontal_rule": map[string]any{
			"command": c.HorizontalRule.Command,
		},
	}
}

// WithOverrides deep-merges a partial mapping over the ToMap projection and
// reconstructs a new config. Nested mapping keys merge recursively;
// non-mapping values replace wholesale. The receiver is never modified.
func (c *ConversionConfig) WithOverrides(overrides map[string]any) (*ConversionConfig, error) {
	if len(overrides) == 0 {
		return c, nil
	}
	merged := deepMerge(c.ToMap(), overrides)
	return ConfigFromMap(merged)
}

// deepMerge recursively merges override into base, returning a new map.
// Values that are mappings on both sides merge key by key; anything else is
// replaced by the override value.
func deepMerge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		overrideMap, overrideOK := asStringKeyMap(value)
		baseMap, baseOK := asStringKeyMap(merged[key])
		if overrideOK && baseOK {
			merged[key] = deepMerge(baseMap, overrideMap)
			continue
		}
		merged[key] = value
	}
	return merged
}

// asStringKeyMap converts the supported mapping representations (native
// config maps and YAML-decoded maps) to map[string]any for merging.
func asStringKeyMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case map[int]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[strconv.Itoa(k)] = v
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprintf("%v", k)] = v
		}
		return out, true
	}
	return nil, false
}

// subMap extracts a nested section by the first present key alias. A missing
// or null section yields an empty map so lookups fall through to defaults.
func subMap(data map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		if m, ok := asStringKeyMap(value); ok {
			return m
		}
	}
	return map[string]any{}
}

func getString(m map[string]any, key, fallback string) (string, error) {
	value, ok := m[key]
	if !ok {
		return fallback, nil
	}
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidConfigValue, key, value)
	}
	return s, nil
}

func getBool(m map[string]any, key string, fallback bool) (bool, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return fallback, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidConfigValue, key, value)
	}
	return b, nil
}

func getInt(m map[string]any, key string, fallback int) (int, error) {
	value, ok := m[key]
	if !ok || value == nil {
		return fallback, nil
	}
	n, err := coerceInt(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidConfigValue, key, value)
	}
	return n, nil
}

func coerceInt(value any) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	}
	return 0, fmt.Errorf("not an integer: %T", value)
}

// coerceIntMapping converts a level-to-command mapping whose keys may be
// ints (native) or strings (YAML).
func coerceIntMapping(value any) (map[int]string, error) {
	m, ok := asStringKeyMap(value)
	if !ok {
		return nil, fmt.Errorf("%w: expected mapping, got %T", ErrInvalidConfigValue, value)
	}
	out := make(map[int]string, len(m))
	for key, raw := range m {
		level, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: level %q is not an integer", ErrInvalidConfigValue, key)
		}
		command, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: command for level %q must be a string", ErrInvalidConfigValue, key)
		}
		out[level] = command
	}
	return out, nil
}

func coerceStringMapping(value any) (map[string]string, error) {
	if native, ok := value.(map[string]string); ok {
		return copyStringMap(native), nil
	}
	m, ok := asStringKeyMap(value)
	if !ok {
		return nil, fmt.Errorf("%w: expected mapping, got %T", ErrInvalidConfigValue, value)
	}
	out := make(map[string]string, len(m))
	for key, raw := range m {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value for %q must be a string", ErrInvalidConfigValue, key)
		}
		out[key] = s
	}
	return out, nil
}

// coercePairs converts an ordered replacement table from either the native
// [][2]string form or the YAML list-of-two-element-lists form.
func coercePairs(value any) ([][2]string, error) {
	switch pairs := value.(type) {
	case [][2]string:
		return copyPairs(pairs), nil
	case [][]string:
		out := make([][2]string, 0, len(pairs))
		for _, pair := range pairs {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: replacement pair must have two elements", ErrInvalidConfigValue)
			}
			out = append(out, [2]string{pair[0], pair[1]})
		}
		return out, nil
	case []any:
		out := make([][2]string, 0, len(pairs))
		for _, raw := range pairs {
			items, ok := raw.([]any)
			if !ok || len(items) != 2 {
				return nil, fmt.Errorf("%w: replacement pair must have two elements", ErrInvalidConfigValue)
			}
			from, fromOK := items[0].(string)
			to, toOK := items[1].(string)
			if !fromOK || !toOK {
				return nil, fmt.Errorf("%w: replacement pair elements must be strings", ErrInvalidConfigValue)
			}
			out = append(out, [2]string{from, to})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected list of pairs, got %T", ErrInvalidConfigValue, value)
}

func copyIntMap(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyPairs(pairs [][2]string) [][2]string {
	out := make([][2]string, len(pairs))
	copy(out, pairs)
	return out
}

// sortedMarkerKeys returns custom marker delimiters longest-first so a short
// marker never matches inside a longer one. Ties break lexicographically to
// keep conversion deterministic.
func sortedMarkerKeys(markers map[string]string) []string {
	keys := make([]string, 0, len(markers))
	for key := range markers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
