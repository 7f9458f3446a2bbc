package loretex

// Node is a block-level AST node. The node set is closed: every node kind
// has a visit method on NodeVisitor, and Accept double-dispatches to it.
// Adding a node kind therefore forces every visitor to handle it.
type Node interface {
	Accept(v NodeVisitor) string
}

// NodeVisitor renders one operation per node kind.
type NodeVisitor interface {
	VisitDocument(n *Document) string
	VisitSection(n *Section) string
	VisitParagraph(n *Paragraph) string
	VisitList(n *List) string
	VisitListItem(n *ListItem) string
	VisitCodeBlock(n *CodeBlock) string
	VisitHorizontalRule(n *HorizontalRule) string
	VisitMathBlock(n *MathBlock) string
	VisitCallout(n *Callout) string
	VisitImage(n *Image) string
	VisitTable(n *Table) string
}

// Document is the root node owning the top-level blocks.
type Document struct {
	Children []Node
}

func (n *Document) Accept(v NodeVisitor) string { return v.VisitDocument(n) }

// Section is a Markdown heading. Level is the raw heading depth (1-6),
// before any anchor-level renormalization.
type Section struct {
	Level int
	Title string
}

func (n *Section) Accept(v NodeVisitor) string { return v.VisitSection(n) }

// Paragraph holds raw, pre-inline text. May span multiple source lines but
// never a blank line.
type Paragraph struct {
	Content string
}

func (n *Paragraph) Accept(v NodeVisitor) string { return v.VisitParagraph(n) }

// List is an ordered or unordered list. All items share the marker kind and
// nesting indent of the first item.
type List struct {
	Ordered bool
	Items   []*ListItem
}

func (n *List) Accept(v NodeVisitor) string { return v.VisitList(n) }

// ListItem owns the block children of a single item: paragraphs, nested
// lists, or any other block parsed from its continuation lines.
type ListItem struct {
	Content []Node
}

func (n *ListItem) Accept(v NodeVisitor) string { return v.VisitListItem(n) }

// CodeBlock is a fenced code block. Content is fence-dedented and is never
// inline-transformed. Language is empty when the fence has no tag.
type CodeBlock struct {
	Language string
	Content  string
}

func (n *CodeBlock) Accept(v NodeVisitor) string { return v.VisitCodeBlock(n) }

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

func (n *HorizontalRule) Accept(v NodeVisitor) string { return v.VisitHorizontalRule(n) }

// MathBlock holds raw display math, never inline-transformed.
type MathBlock struct {
	Content string
}

func (n *MathBlock) Accept(v NodeVisitor) string { return v.VisitMathBlock(n) }

// Callout is a blockquote-styled admonition (> [!type] title). Children are
// parsed recursively from the de-blockquoted body lines. Title is empty when
// the header carries none.
type Callout struct {
	Type     string
	Title    string
	Children []Node
}

func (n *Callout) Accept(v NodeVisitor) string { return v.VisitCallout(n) }

// Image is a standalone HTML image tag line. SourcePath is extension-less.
type Image struct {
	SourcePath string
	WidthPx    int
}

func (n *Image) Accept(v NodeVisitor) string { return v.VisitImage(n) }

// Table holds per-column alignments ("l", "c", "r"), header cells, and body
// rows. Cell text may carry a trailing {col=N,row=M} span annotation that the
// generator interprets.
type Table struct {
	Alignments []string
	Header     []string
	Rows       [][]string
}

func (n *Table) Accept(v NodeVisitor) string { return v.VisitTable(n) }
