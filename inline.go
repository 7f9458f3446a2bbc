package loretex

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled inline patterns.
var (
	inlineCodePattern      = regexp.MustCompile("`([^`\n]+)`")
	inlineMathParenPattern = regexp.MustCompile(`\\\((.+?)\\\)`)
	lineBreakPattern       = regexp.MustCompile(`<br\s*/?>`)
	inlineImagePattern     = regexp.MustCompile(`<img src="([^"]+)\.svg" width="(\d+)"[^>]*>`)
	citationPattern        = regexp.MustCompile(`\[@([^\]]+)\]`)
	footnoteRefPattern     = regexp.MustCompile(`\[\^([^\]]+)\]`)
	wikiLinkPattern        = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	linkPattern            = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	autolinkPattern        = regexp.MustCompile(`<(https?://[^>]+)>`)
	boldPattern            = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
)

// mathPlaceholderFormat numbers the tokens shielding inline math spans from
// the substitution cascade until the final restore step.
const mathPlaceholderFormat = "__LORETEX_MATH_%d__"

// mathSpan pairs a placeholder token with its rendered math.
type mathSpan struct {
	token    string
	rendered string
}

// InlineTransformer rewrites inline Markdown syntax to LaTeX. The cascade
// order is a contract (code spans first, math shielding second, placeholder
// restore last); see Convert.
type InlineTransformer struct {
	config    *ConversionConfig
	footnotes map[string]string
}

// NewInlineTransformer builds a transformer for the given configuration and
// footnote-definition map. Both may be nil.
func NewInlineTransformer(config *ConversionConfig, footnotes map[string]string) *InlineTransformer {
	if config == nil {
		config = DefaultConfig()
	}
	return &InlineTransformer{config: config, footnotes: footnotes}
}

// Convert rewrites inline Markdown in text to LaTeX. Inline code spans are
// split off first and only escaped, never otherwise transformed.
func (t *InlineTransformer) Convert(text string) string {
	var b strings.Builder
	last := 0
	for _, match := range inlineCodePattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(t.convertNonCode(text[last:match[0]]))
		b.WriteString(t.formatInlineCode(text[match[2]:match[3]]))
		last = match[1]
	}
	b.WriteString(t.convertNonCode(text[last:]))
	return b.String()
}

// convertNonCode applies the ordered cascade to a non-code segment:
// math shielding, line breaks, custom markers, images, citations,
// footnotes, wiki-links, links, autolinks, emphasis, normalization, and
// finally math restoration.
func (t *InlineTransformer) convertNonCode(text string) string {
	text, mathSpans := t.extractInlineMath(text)

	lineBreak := ensureCommand(t.config.Inline.LineBreakCommand)
	text = lineBreakPattern.ReplaceAllString(text, lineBreak+" ")

	text = t.applyCustomMarkers(text)

	text = inlineImagePattern.ReplaceAllStringFunc(text, func(tag string) string {
		match := inlineImagePattern.FindStringSubmatch(tag)
		width, err := coerceInt(match[2])
		if err != nil {
			return tag
		}
		return t.config.Images.FormatBlock(match[1], width)
	})

	text = citationPattern.ReplaceAllStringFunc(text, func(raw string) string {
		return t.formatCitation(citationPattern.FindStringSubmatch(raw)[1])
	})

	text = footnoteRefPattern.ReplaceAllStringFunc(text, func(raw string) string {
		return t.formatFootnoteRef(footnoteRefPattern.FindStringSubmatch(raw)[1])
	})

	text = wikiLinkPattern.ReplaceAllStringFunc(text, func(raw string) string {
		return t.formatWikiLink(wikiLinkPattern.FindStringSubmatch(raw)[1])
	})

	text = linkPattern.ReplaceAllStringFunc(text, func(raw string) string {
		match := linkPattern.FindStringSubmatch(raw)
		return t.formatLink(match[1], match[2])
	})

	text = autolinkPattern.ReplaceAllStringFunc(text, func(raw string) string {
		return t.config.Links.FormatAutolink(autolinkPattern.FindStringSubmatch(raw)[1])
	})

	text = t.applyEmphasis(text)
	text = t.normalizeCharacters(text)
	return restoreMathSpans(text, mathSpans)
}

// applyEmphasis rewrites bold then italic. The star and underscore italic
// forms require non-alphanumeric, non-delimiter boundaries so that a*b*c
// and x_1 are left alone.
func (t *InlineTransformer) applyEmphasis(text string) string {
	bold := ensureCommand(t.config.Inline.BoldCommand)
	italic := ensureCommand(t.config.Inline.ItalicCommand)

	text = boldPattern.ReplaceAllString(text, bold+"{$1}")
	text = replaceDelimited(text, '*', isStarBoundary, func(inner string) string {
		return italic + "{" + inner + "}"
	})
	text = replaceDelimited(text, '_', isUnderscoreBoundary, func(inner string) string {
		return italic + "{" + inner + "}"
	})
	return text
}

// formatInlineCode escapes LaTeX-sensitive characters and wraps the span in
// the configured code command. No other inline rule applies to code spans.
func (t *InlineTransformer) formatInlineCode(code string) string {
	command := ensureCommand(t.config.Inline.CodeCommand)
	var b strings.Builder
	for _, r := range code {
		if escaped, ok := t.config.Inline.TextttEscapeMap[string(r)]; ok {
			b.WriteString(escaped)
		} else {
			b.WriteRune(r)
		}
	}
	return command + "{" + b.String() + "}"
}

func (t *InlineTransformer) normalizeCharacters(text string) string {
	for _, pair := range t.config.Inline.CharacterNormalization {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	return text
}

// extractInlineMath replaces \( ... \) and $ ... $ spans with numbered
// placeholder tokens so no later substitution can touch math content.
func (t *InlineTransformer) extractInlineMath(text string) (string, []mathSpan) {
	var spans []mathSpan
	counter := 0

	shield := func(content string) string {
		token := fmt.Sprintf(mathPlaceholderFormat, counter)
		counter++
		spans = append(spans, mathSpan{token: token, rendered: t.formatInlineMath(content)})
		return token
	}

	text = inlineMathParenPattern.ReplaceAllStringFunc(text, func(raw string) string {
		return shield(inlineMathParenPattern.FindStringSubmatch(raw)[1])
	})
	text = replaceDollarMath(text, shield)
	return text, spans
}

// replaceDollarMath substitutes single-dollar math spans. Hand-rolled
// because the $$-exclusion and escaped-dollar rules need lookarounds RE2
// does not support: the opening $ must not be preceded by a backslash, the
// content holds no $ or newline, and the closing $ must not be followed by
// another $.
func replaceDollarMath(text string, shield func(content string) string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '$' || (i > 0 && text[i-1] == '\\') {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(text) && text[j] != '$' && text[j] != '\n' {
			j++
		}
		if j >= len(text) || text[j] != '$' || j == i+1 {
			b.WriteByte(c)
			i++
			continue
		}
		if j+1 < len(text) && text[j+1] == '$' {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(shield(text[i+1 : j]))
		i = j + 1
	}
	return b.String()
}

func restoreMathSpans(text string, spans []mathSpan) string {
	for _, span := range spans {
		text = strings.ReplaceAll(text, span.token, span.rendered)
	}
	return text
}

func (t *InlineTransformer) formatInlineMath(content string) string {
	template := t.config.Inline.InlineMathTemplate
	if strings.Contains(template, "{content}") {
		return formatTemplate(template, map[string]string{"content": content})
	}
	if strings.Contains(template, "{text}") {
		return formatTemplate(template, map[string]string{"text": content})
	}
	return template + content
}

// applyCustomMarkers substitutes user-defined symmetric delimiter pairs,
// longest marker first.
func (t *InlineTransformer) applyCustomMarkers(text string) string {
	if len(t.config.Inline.CustomMarkers) == 0 {
		return text
	}
	for _, marker := range sortedMarkerKeys(t.config.Inline.CustomMarkers) {
		if marker == "" {
			continue
		}
		template := t.config.Inline.CustomMarkers[marker]
		quoted := regexp.QuoteMeta(marker)
		pattern := regexp.MustCompile(quoted + `([^\n]+?)` + quoted)
		text = pattern.ReplaceAllStringFunc(text, func(raw string) string {
			inner := pattern.FindStringSubmatch(raw)[1]
			return t.formatCustomMarker(template, inner)
		})
	}
	return text
}

// formatCustomMarker treats a template containing {text}/{content} as a
// format string; anything else is a command name wrapping the text.
func (t *InlineTransformer) formatCustomMarker(template, text string) string {
	if strings.Contains(template, "{text}") || strings.Contains(template, "{content}") {
		return formatTemplate(template, map[string]string{"text": text, "content": text})
	}
	return ensureCommand(template) + "{" + text + "}"
}

// formatLink renders a standard [text](url) link. A #fragment URL becomes
// an internal reference to the slugified fragment; matching text and URL
// use the URL-only template; anything else is an external link with
// inline-formatted link text.
func (t *InlineTransformer) formatLink(text, url string) string {
	if strings.HasPrefix(url, "#") {
		label := Slugify(strings.TrimLeft(url, "#"), t.config.Labels.LabelSeparator)
		if prefix := t.config.Labels.LabelPrefix; prefix != "" {
			label = prefix + t.config.Labels.LabelSeparator + label
		}
		return t.config.Links.FormatInternal(label)
	}
	if strings.TrimSpace(text) == strings.TrimSpace(url) {
		return t.config.Links.FormatURLOnly(url)
	}
	return t.config.Links.FormatExternal(url, t.convertLinkText(text))
}

// convertLinkText applies only emphasis and character normalization; link
// text never nests links, citations, or math.
func (t *InlineTransformer) convertLinkText(text string) string {
	return t.normalizeCharacters(t.applyEmphasis(text))
}

// formatCitation renders [@key], [@a; @b], and [@key, locator] markers.
// Any comma-bearing entry forces individual rendering joined by the
// multi-cite separator, even when its locator is empty; only then do all
// keys share one call.
func (t *InlineTransformer) formatCitation(raw string) string {
	type entry struct {
		key        string
		locator    string
		hasLocator bool
	}
	var entries []entry
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, locator, found := strings.Cut(part, ","); found {
			entries = append(entries, entry{
				key:        strings.TrimPrefix(strings.TrimSpace(key), "@"),
				locator:    strings.TrimSpace(locator),
				hasLocator: true,
			})
		} else {
			entries = append(entries, entry{key: strings.TrimPrefix(part, "@")})
		}
	}

	if len(entries) == 0 {
		return raw
	}

	hasLocator := false
	for _, e := range entries {
		if e.hasLocator {
			hasLocator = true
			break
		}
	}
	if !hasLocator {
		keys := make([]string, len(entries))
		for i, e := range entries {
			keys[i] = e.key
		}
		return t.config.Citations.FormatCitation(keys)
	}

	rendered := make([]string, len(entries))
	for i, e := range entries {
		if e.locator != "" {
			rendered[i] = t.config.Citations.FormatCitationWithLocator([]string{e.key}, e.locator)
		} else {
			rendered[i] = t.config.Citations.FormatCitation([]string{e.key})
		}
	}
	return strings.Join(rendered, t.config.Citations.MultiCiteSeparator)
}

// formatFootnoteRef resolves [^key] against the pre-extracted definition
// map. Unresolved keys stay literal.
func (t *InlineTransformer) formatFootnoteRef(key string) string {
	text, ok := t.footnotes[key]
	if !ok {
		return "[^" + key + "]"
	}
	return t.config.Footnotes.FormatFootnote(text)
}

// formatWikiLink renders [[target]] and [[target|alias]] forms; the target
// is slugified into a label.
func (t *InlineTransformer) formatWikiLink(raw string) string {
	if target, alias, found := strings.Cut(raw, "|"); found {
		label := Slugify(strings.TrimSpace(target), t.config.WikiLinks.LabelSeparator)
		return t.config.WikiLinks.FormatAlias(label, strings.TrimSpace(alias))
	}
	label := Slugify(strings.TrimSpace(raw), t.config.WikiLinks.LabelSeparator)
	return t.config.WikiLinks.FormatLink(label)
}

// replaceDelimited substitutes single-delimiter emphasis spans. Hand-rolled
// for the same reason as replaceDollarMath: the boundary rules on both
// sides of the span are lookarounds. A span opens at a delimiter whose
// preceding byte is not a boundary byte, holds at least one non-delimiter,
// non-newline byte, and closes at a delimiter whose following byte is not a
// boundary byte.
func replaceDelimited(text string, delim byte, isBoundary func(byte) bool, format func(inner string) string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != delim || (i > 0 && isBoundary(text[i-1])) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(text) && text[j] != delim && text[j] != '\n' {
			j++
		}
		if j >= len(text) || text[j] != delim || j == i+1 {
			b.WriteByte(c)
			i++
			continue
		}
		if j+1 < len(text) && isBoundary(text[j+1]) {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(format(text[i+1 : j]))
		i = j + 1
	}
	return b.String()
}

func isStarBoundary(c byte) bool {
	return isASCIIAlphanumeric(c) || c == '*'
}

func isUnderscoreBoundary(c byte) bool {
	return isASCIIAlphanumeric(c) || c == '_'
}

func isASCIIAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
