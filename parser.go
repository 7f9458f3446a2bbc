package loretex

import (
	"regexp"
	"strings"
)

// Precompiled block-level patterns.
var (
	codeFencePattern    = regexp.MustCompile("^(?P<indent>[ \t]*)```(?P<lang>[A-Za-z0-9_-]+)?\\s*$")
	codeFenceEndPattern = regexp.MustCompile("^[ \t]*```\\s*$")

	calloutHeaderPattern = regexp.MustCompile(`^(?P<indent>[ \t]*)> \[!(?P<type>[A-Za-z]+)\](?:\s+(?P<title>.*))?$`)

	headingPattern = regexp.MustCompile(`^(?P<marks>#{1,6})[ \t]+(?P<title>.+)$`)

	listItemPattern = regexp.MustCompile(`^(?P<indent>[ \t]*)(?P<marker>(?:[-*+])|(?:\d+\.))\s+(?P<content>.*)$`)

	imageLinePattern = regexp.MustCompile(`^<img src="(?P<path>[^"]+)\.svg" width="(?P<width>\d+)"[^>]*>$`)

	tableRowPattern       = regexp.MustCompile(`^\|(.+)\|$`)
	tableSeparatorPattern = regexp.MustCompile(`^\|[\s:|-]+\|$`)

	// Blockquote chevron stripping, indentation preserved.
	chevronPattern        = regexp.MustCompile(`^(?P<indent>[ \t]*)> ?(?P<rest>.*)$`)
	calloutContentPattern = regexp.MustCompile(`^[ \t]*> ?(.*)$`)
	blockquoteLinePattern = regexp.MustCompile(`^[ \t]*>`)
)

// Subexpression indices resolved once; the parser is on the hot path.
var (
	listItemIndentIdx  = listItemPattern.SubexpIndex("indent")
	listItemMarkerIdx  = listItemPattern.SubexpIndex("marker")
	listItemContentIdx = listItemPattern.SubexpIndex("content")
)

// MarkdownParser parses Markdown text into an AST. The zero value is ready
// to use; a single parser is safe for concurrent use.
type MarkdownParser struct{}

// NewMarkdownParser returns a block-level Markdown parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse converts Markdown source into a Document. Structurally invalid
// constructs return a *ParseError; no partial document is produced.
func (p *MarkdownParser) Parse(source string) (*Document, error) {
	children, err := p.parseLines(splitLines(source))
	if err != nil {
		return nil, err
	}
	return &Document{Children: children}, nil
}

// parseLines classifies each line through the ordered predicate cascade and
// builds nodes. First match wins; anything unmatched starts a paragraph.
func (p *MarkdownParser) parseLines(lines []string) ([]Node, error) {
	var nodes []Node
	i := 0

	for i < len(lines) {
		rawLine := lines[i]
		line := p.normalizedLine(rawLine)

		switch {
		case isBlank(line):
			i++

		case isCalloutHeader(rawLine):
			callout, consumed, err := p.parseCallout(lines, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, callout)
			i += consumed

		case isCodeFenceStart(line):
			codeBlock, consumed, err := p.parseCodeBlock(lines, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, codeBlock)
			i += consumed

		case isMathBlockStart(line):
			mathBlock, consumed := p.parseMathBlock(lines, i)
			nodes = append(nodes, mathBlock)
			i += consumed

		case isHeading(line):
			section, err := p.parseHeading(line, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, section)
			i++

		case isListItem(line):
			list, consumed, err := p.parseList(lines, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, list)
			i += consumed

		case isImageLine(line):
			image, err := p.parseImageLine(line, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, image)
			i++

		case p.isTableStart(lines, i):
			table, consumed := p.parseTable(lines, i)
			nodes = append(nodes, table)
			i += consumed

		case isHorizontalRule(line):
			nodes = append(nodes, &HorizontalRule{})
			i++

		default:
			paragraphLines := []string{line}
			i++
			for i < len(lines) {
				rawLine = lines[i]
				line = p.normalizedLine(rawLine)
				if isBlank(line) || isCalloutHeader(rawLine) || isCodeFenceStart(line) ||
					isMathBlockStart(line) || isHeading(line) || isListItem(line) ||
					isImageLine(line) || p.isTableStart(lines, i) || isHorizontalRule(line) {
					break
				}
				paragraphLines = append(paragraphLines, line)
				i++
			}
			nodes = append(nodes, &Paragraph{Content: strings.Join(paragraphLines, "\n")})
		}
	}

	return nodes, nil
}

// parseCodeBlock consumes a fenced block, dedenting content by the fence's
// own indent. A missing closing fence runs to end of input.
func (p *MarkdownParser) parseCodeBlock(lines []string, startIdx int) (*CodeBlock, int, error) {
	start := p.normalizedLine(lines[startIdx])
	match := codeFencePattern.FindStringSubmatch(start)
	if match == nil {
		return nil, 0, newParseError(ErrInvalidCodeFence, startIdx+1, lines[startIdx])
	}
	indent := match[codeFencePattern.SubexpIndex("indent")]
	language := match[codeFencePattern.SubexpIndex("lang")]

	var contentLines []string
	i := startIdx + 1
	for i < len(lines) {
		line := p.normalizedLine(lines[i])
		if codeFenceEndPattern.MatchString(line) {
			i++
			break
		}
		if indent != "" && strings.HasPrefix(line, indent) {
			contentLines = append(contentLines, line[len(indent):])
		} else {
			contentLines = append(contentLines, line)
		}
		i++
	}

	return &CodeBlock{Language: language, Content: strings.Join(contentLines, "\n")}, i - startIdx, nil
}

// parseMathBlock handles both the multi-line form ($$ ... $$, \[ ... \])
// and the single-line wrapped form. Ambiguous input degrades to literal
// content instead of failing.
func (p *MarkdownParser) parseMathBlock(lines []string, startIdx int) (*MathBlock, int) {
	startLine := strings.TrimSpace(p.normalizedLine(lines[startIdx]))

	if startLine == "$$" || startLine == `\[` {
		endDelimiter := "$$"
		if startLine == `\[` {
			endDelimiter = `\]`
		}
		var contentLines []string
		i := startIdx + 1
		for i < len(lines) {
			line := strings.TrimSpace(p.normalizedLine(lines[i]))
			if line == endDelimiter {
				i++
				break
			}
			contentLines = append(contentLines, p.normalizedLine(lines[i]))
			i++
		}
		return &MathBlock{Content: strings.Join(contentLines, "\n")}, i - startIdx
	}

	if strings.HasPrefix(startLine, "$$") && strings.HasSuffix(startLine, "$$") && len(startLine) > 4 {
		return &MathBlock{Content: strings.TrimSpace(startLine[2 : len(startLine)-2])}, 1
	}
	if strings.HasPrefix(startLine, `\[`) && strings.HasSuffix(startLine, `\]`) && len(startLine) > 4 {
		return &MathBlock{Content: strings.TrimSpace(startLine[2 : len(startLine)-2])}, 1
	}

	return &MathBlock{Content: startLine}, 1
}

// parseCallout consumes a callout header and its blockquote-prefixed body,
// recursively parsing the de-blockquoted lines as the callout's children.
func (p *MarkdownParser) parseCallout(lines []string, startIdx int) (*Callout, int, error) {
	headerLine := lines[startIdx]
	match := calloutHeaderPattern.FindStringSubmatch(headerLine)
	if match == nil {
		return nil, 0, newParseError(ErrInvalidCallout, startIdx+1, headerLine)
	}
	calloutType := match[calloutHeaderPattern.SubexpIndex("type")]
	title := match[calloutHeaderPattern.SubexpIndex("title")]

	var contentLines []string
	i := startIdx + 1
	for i < len(lines) {
		line := lines[i]
		if isCalloutHeader(line) || !isBlockquoteLine(line) {
			break
		}
		contentLines = append(contentLines, stripCalloutPrefix(line))
		i++
	}

	children, err := p.parseLines(contentLines)
	if err != nil {
		return nil, 0, err
	}
	return &Callout{Type: calloutType, Title: title, Children: children}, i - startIdx, nil
}

func (p *MarkdownParser) parseHeading(line string, lineIdx int) (*Section, error) {
	match := headingPattern.FindStringSubmatch(line)
	if match == nil {
		return nil, newParseError(ErrInvalidHeading, lineIdx+1, line)
	}
	level := len(match[headingPattern.SubexpIndex("marks")])
	title := strings.TrimSpace(match[headingPattern.SubexpIndex("title")])
	return &Section{Level: level, Title: title}, nil
}

// parseList consumes items at the starting item's indent and marker kind.
// A change in either terminates the list.
func (p *MarkdownParser) parseList(lines []string, startIdx int) (*List, int, error) {
	startLine := p.normalizedLine(lines[startIdx])
	match := listItemPattern.FindStringSubmatchIndex(startLine)
	if match == nil {
		return nil, 0, newParseError(ErrInvalidListItem, startIdx+1, startLine)
	}

	baseIndent := indentWidth(group(startLine, match, listItemIndentIdx))
	ordered := isOrderedMarker(group(startLine, match, listItemMarkerIdx))
	list := &List{Ordered: ordered}

	i := startIdx
	for i < len(lines) {
		line := p.normalizedLine(lines[i])
		if isBlank(line) {
			i++
			continue
		}
		itemMatch := listItemPattern.FindStringSubmatchIndex(line)
		if itemMatch == nil {
			break
		}
		if indentWidth(group(line, itemMatch, listItemIndentIdx)) != baseIndent {
			break
		}
		if isOrderedMarker(group(line, itemMatch, listItemMarkerIdx)) != ordered {
			break
		}
		item, consumed, err := p.parseListItem(lines, i, line, itemMatch)
		if err != nil {
			return nil, 0, err
		}
		list.Items = append(list.Items, item)
		i += consumed
	}

	return list, i - startIdx, nil
}

// parseListItem collects the item's first line and every continuation line
// indented past the item's marker, dedents the continuation to the content
// column, and recursively re-parses the collected block. Blank lines are
// kept as empty continuation lines so nested paragraphs stay separated.
func (p *MarkdownParser) parseListItem(lines []string, startIdx int, matchedLine string, match []int) (*ListItem, int, error) {
	baseIndent := indentWidth(group(matchedLine, match, listItemIndentIdx))
	contentIndent := match[2*listItemContentIdx]

	var itemLines []string
	if first := strings.TrimSpace(group(matchedLine, match, listItemContentIdx)); first != "" {
		itemLines = append(itemLines, first)
	}

	i := startIdx + 1
	for i < len(lines) {
		line := p.normalizedLine(lines[i])
		if isBlank(line) {
			itemLines = append(itemLines, "")
			i++
			continue
		}
		if nextMatch := listItemPattern.FindStringSubmatchIndex(line); nextMatch != nil {
			if indentWidth(group(line, nextMatch, listItemIndentIdx)) <= baseIndent {
				break
			}
		}
		if indentWidth(line) <= baseIndent {
			break
		}
		itemLines = append(itemLines, dedentLine(line, contentIndent))
		i++
	}

	children, err := p.parseLines(itemLines)
	if err != nil {
		return nil, 0, err
	}
	return &ListItem{Content: children}, i - startIdx, nil
}

func (p *MarkdownParser) parseImageLine(line string, lineIdx int) (*Image, error) {
	match := imageLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return nil, newParseError(ErrInvalidImageTag, lineIdx+1, line)
	}
	width, err := coerceInt(match[imageLinePattern.SubexpIndex("width")])
	if err != nil || width < 0 {
		return nil, newParseError(ErrInvalidImageTag, lineIdx+1, line)
	}
	return &Image{
		SourcePath: match[imageLinePattern.SubexpIndex("path")],
		WidthPx:    width,
	}, nil
}

// isTableStart needs two lines of lookahead: a pipe row immediately followed
// by a pipe-delimited alignment separator row.
func (p *MarkdownParser) isTableStart(lines []string, idx int) bool {
	if idx+1 >= len(lines) {
		return false
	}
	header := strings.TrimSpace(p.normalizedLine(lines[idx]))
	separator := strings.TrimSpace(p.normalizedLine(lines[idx+1]))
	return tableRowPattern.MatchString(header) && tableSeparatorPattern.MatchString(separator)
}

// parseTable consumes the header, the alignment separator, and every
// following pipe row. Malformed rows end the table rather than failing.
func (p *MarkdownParser) parseTable(lines []string, startIdx int) (*Table, int) {
	header := parseTableRow(strings.TrimSpace(p.normalizedLine(lines[startIdx])))
	alignments := parseAlignments(strings.TrimSpace(p.normalizedLine(lines[startIdx+1])))

	var rows [][]string
	i := startIdx + 2
	for i < len(lines) {
		line := strings.TrimSpace(p.normalizedLine(lines[i]))
		if !tableRowPattern.MatchString(line) {
			break
		}
		rows = append(rows, parseTableRow(line))
		i++
	}

	return &Table{Alignments: alignments, Header: header, Rows: rows}, i - startIdx
}

func parseTableRow(line string) []string {
	content := strings.Trim(line, "|")
	cells := strings.Split(content, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func parseAlignments(separatorLine string) []string {
	content := strings.Trim(separatorLine, "|")
	cells := strings.Split(content, "|")
	alignments := make([]string, 0, len(cells))
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		switch {
		case strings.HasPrefix(cell, ":") && strings.HasSuffix(cell, ":"):
			alignments = append(alignments, "c")
		case strings.HasSuffix(cell, ":"):
			alignments = append(alignments, "r")
		default:
			alignments = append(alignments, "l")
		}
	}
	return alignments
}

// normalizedLine strips a single leading blockquote chevron unless the line
// is itself a callout header, which keeps its prefix for parseCallout.
func (p *MarkdownParser) normalizedLine(line string) string {
	if isCalloutHeader(line) {
		return line
	}
	if match := chevronPattern.FindStringSubmatch(line); match != nil {
		return match[chevronPattern.SubexpIndex("indent")] + match[chevronPattern.SubexpIndex("rest")]
	}
	return line
}

func stripCalloutPrefix(line string) string {
	if match := calloutContentPattern.FindStringSubmatch(line); match != nil {
		return match[1]
	}
	return line
}

// Line predicates, in cascade order.

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isCalloutHeader(line string) bool {
	return calloutHeaderPattern.MatchString(line)
}

func isCodeFenceStart(line string) bool {
	return codeFencePattern.MatchString(line)
}

func isMathBlockStart(line string) bool {
	stripped := strings.TrimSpace(line)
	if stripped == "$$" || stripped == `\[` {
		return true
	}
	if strings.HasPrefix(stripped, "$$") && strings.HasSuffix(stripped, "$$") && len(stripped) > 4 {
		return true
	}
	if strings.HasPrefix(stripped, `\[`) && strings.HasSuffix(stripped, `\]`) && len(stripped) > 4 {
		return true
	}
	return false
}

func isHeading(line string) bool {
	return headingPattern.MatchString(line)
}

func isListItem(line string) bool {
	return listItemPattern.MatchString(line)
}

func isImageLine(line string) bool {
	return imageLinePattern.MatchString(strings.TrimSpace(line))
}

// isHorizontalRule matches three or more of the same marker (-, *, _)
// optionally separated by spaces or tabs. Done by hand: RE2 has no
// backreferences.
func isHorizontalRule(line string) bool {
	var marker byte
	count := 0
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case ' ', '\t':
			continue
		case '-', '*', '_':
			if marker == 0 {
				marker = c
			} else if c != marker {
				return false
			}
			count++
		default:
			return false
		}
	}
	return count >= 3
}

func isBlockquoteLine(line string) bool {
	return blockquoteLinePattern.MatchString(line)
}

func isOrderedMarker(marker string) bool {
	return strings.HasSuffix(marker, ".")
}

// indentWidth computes the leading indentation in columns, expanding tabs.
func indentWidth(s string) int {
	width := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}

func dedentLine(line string, indent int) string {
	if len(line) <= indent {
		return strings.TrimLeft(line, " \t")
	}
	return line[indent:]
}

// group extracts a named subexpression from a FindStringSubmatchIndex result.
func group(s string, match []int, idx int) string {
	start, end := match[2*idx], match[2*idx+1]
	if start < 0 {
		return ""
	}
	return s[start:end]
}

// splitLines splits on \n after normalizing \r\n and bare \r. A trailing
// newline does not produce a final empty line, matching line-based parsing.
func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
