package loretex

import (
	"regexp"
	"strconv"
	"strings"
)

// cellSpanPattern matches a trailing {col=N,row=M} annotation on a table cell.
var cellSpanPattern = regexp.MustCompile(`\{([^{}]+)\}\s*$`)

// LaTeXGenerator renders an AST to LaTeX. It implements NodeVisitor; each
// visit method returns the LaTeX for one block, and VisitDocument joins the
// non-empty blocks with blank lines.
type LaTeXGenerator struct {
	config *ConversionConfig
	inline *InlineTransformer
}

// NewLaTeXGenerator builds a generator for the given configuration and
// inline transformer. A nil config falls back to DefaultConfig; a nil
// transformer is constructed from the config with no footnote definitions.
func NewLaTeXGenerator(config *ConversionConfig, inline *InlineTransformer) *LaTeXGenerator {
	if config == nil {
		config = DefaultConfig()
	}
	if inline == nil {
		inline = NewInlineTransformer(config, nil)
	}
	return &LaTeXGenerator{config: config, inline: inline}
}

// Generate renders the document rooted at doc.
func (g *LaTeXGenerator) Generate(doc *Document) string {
	if doc == nil {
		return ""
	}
	return g.VisitDocument(doc)
}

func (g *LaTeXGenerator) VisitDocument(n *Document) string {
	var blocks []string
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if block := child.Accept(g); strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (g *LaTeXGenerator) VisitSection(n *Section) string {
	command := ensureCommand(g.config.Headings.ResolveCommand(n.Level))
	section := command + "{" + g.inline.Convert(n.Title) + "}"
	if g.config.Labels.AutoLabelHeadings {
		return section + "\n" + g.config.Labels.FormatLabel(g.makeLabel(n.Title))
	}
	return section
}

func (g *LaTeXGenerator) VisitParagraph(n *Paragraph) string {
	return g.inline.Convert(n.Content)
}

func (g *LaTeXGenerator) VisitList(n *List) string {
	env := g.config.Lists.UnorderedEnvironment
	if n.Ordered {
		env = g.config.Lists.OrderedEnvironment
	}
	items := make([]string, len(n.Items))
	for i, item := range n.Items {
		items[i] = item.Accept(g)
	}
	return "\\begin{" + env + "}\n" + strings.Join(items, "\n") + "\n\\end{" + env + "}"
}

// VisitListItem renders the item's children as alternating text and block
// segments. A leading text segment rides on the \item line; a leading block
// gets a bare \item above it.
func (g *LaTeXGenerator) VisitListItem(n *ListItem) string {
	type segment struct {
		isText bool
		value  string
	}
	var segments []segment
	var textParts []string

	flushText := func() {
		if len(textParts) > 0 {
			segments = append(segments, segment{isText: true, value: strings.TrimSpace(strings.Join(textParts, "\n"))})
			textParts = nil
		}
	}

	for _, child := range n.Content {
		if para, ok := child.(*Paragraph); ok {
			textParts = append(textParts, g.inline.Convert(para.Content))
			continue
		}
		flushText()
		segments = append(segments, segment{value: child.Accept(g)})
	}
	flushText()

	if len(segments) == 0 {
		return "\\item"
	}

	var lines []string
	first := segments[0]
	switch {
	case first.isText && first.value != "":
		lines = append(lines, "\\item "+first.value)
	case first.isText:
		lines = append(lines, "\\item")
	default:
		lines = append(lines, "\\item", first.value)
	}
	for _, seg := range segments[1:] {
		lines = append(lines, seg.value)
	}
	return strings.Join(lines, "\n")
}

func (g *LaTeXGenerator) VisitCodeBlock(n *CodeBlock) string {
	return g.config.CodeBlocks.Begin(n.Language) + "\n" + n.Content + "\n" + g.config.CodeBlocks.End()
}

func (g *LaTeXGenerator) VisitHorizontalRule(n *HorizontalRule) string {
	return g.config.HorizontalRule.Render()
}

func (g *LaTeXGenerator) VisitMathBlock(n *MathBlock) string {
	return g.config.Math.FormatBlock(n.Content)
}

func (g *LaTeXGenerator) VisitCallout(n *Callout) string {
	var blocks []string
	for _, child := range n.Children {
		if block := child.Accept(g); strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	body := strings.Join(blocks, "\n\n")

	environment := g.config.Callouts.ResolveEnvironment(n.Type)
	begin := "\\begin{" + environment + "}"
	if n.Title != "" && g.config.Callouts.TitleTemplate != "" {
		title := g.inline.Convert(n.Title)
		begin += formatTemplate(g.config.Callouts.TitleTemplate, map[string]string{"title": title})
	}
	return begin + "\n" + body + "\n\\end{" + environment + "}"
}

func (g *LaTeXGenerator) VisitImage(n *Image) string {
	return g.config.Images.FormatBlock(n.SourcePath, n.WidthPx)
}

// VisitTable renders a tabular environment. A cell's trailing {col=N}
// annotation becomes \multicolumn and consumes N source cells; {row=M}
// wraps the cell in the multirow command.
func (g *LaTeXGenerator) VisitTable(n *Table) string {
	colSpec := strings.Join(n.Alignments, "")

	headerCells := make([]string, len(n.Header))
	for i, cell := range n.Header {
		headerCells[i] = g.inline.Convert(cell)
	}
	header := strings.Join(headerCells, " & ")

	var bodyLines []string
	for _, row := range n.Rows {
		var rendered []string
		idx := 0
		for idx < len(row) {
			content, colSpan, rowSpan := parseCellSpan(row[idx])
			latex := g.inline.Convert(content)
			if rowSpan > 1 {
				command := ensureCommand(g.config.Tables.MultirowCommand)
				latex = command + "{" + strconv.Itoa(rowSpan) + "}{*}{" + latex + "}"
			}
			if colSpan > 1 {
				latex = "\\multicolumn{" + strconv.Itoa(colSpan) + "}{" + g.config.Tables.MulticolumnAlign + "}{" + latex + "}"
				idx += colSpan
			} else {
				idx++
			}
			rendered = append(rendered, latex)
		}
		bodyLines = append(bodyLines, strings.Join(rendered, " & ")+" \\\\")
	}

	env := g.config.Tables.Environment
	var b strings.Builder
	b.WriteString("\\begin{" + env + "}{" + colSpec + "}\n")
	if g.config.Tables.IncludeHlines {
		b.WriteString("\\hline\n")
		b.WriteString(header + " \\\\\n")
		b.WriteString("\\hline\n")
		b.WriteString(strings.Join(bodyLines, "\n"))
		b.WriteString("\n\\hline\n")
	} else {
		b.WriteString(header + " \\\\\n")
		b.WriteString(strings.Join(bodyLines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\\end{" + env + "}")
	return b.String()
}

func (g *LaTeXGenerator) makeLabel(title string) string {
	normalized := Slugify(title, g.config.Labels.LabelSeparator)
	if prefix := g.config.Labels.LabelPrefix; prefix != "" {
		return prefix + g.config.Labels.LabelSeparator + normalized
	}
	return normalized
}

// parseCellSpan splits a trailing {col=N,row=M} annotation off a cell.
// Malformed entries are ignored; missing keys default to span 1.
func parseCellSpan(cell string) (content string, colSpan, rowSpan int) {
	colSpan, rowSpan = 1, 1
	loc := cellSpanPattern.FindStringSubmatchIndex(cell)
	if loc == nil {
		return cell, colSpan, rowSpan
	}
	props := cell[loc[2]:loc[3]]
	for _, entry := range strings.Split(props, ",") {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		span, err := coerceInt(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		switch strings.TrimSpace(key) {
		case "col":
			colSpan = span
		case "row":
			rowSpan = span
		}
	}
	return strings.TrimRight(cell[:loc[0]], " \t"), colSpan, rowSpan
}
