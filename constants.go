package loretex

// tabWidth is the column width a tab character expands to when computing
// list indentation.
const tabWidth = 4

// defaultSectionCommands maps relative heading levels to LaTeX sectioning
// commands. Read-only; DefaultConfig hands out copies.
var defaultSectionCommands = map[int]string{
	1: "section",
	2: "subsection",
	3: "subsubsection",
	4: "paragraph",
}

// defaultTextttEscapeMap escapes LaTeX-sensitive characters inside inline
// code spans. Read-only; DefaultConfig hands out copies.
var defaultTextttEscapeMap = map[string]string{
	"\\": `\textbackslash{}`,
	"{":  `\{`,
	"}":  `\}`,
	"#":  `\#`,
	"$":  `\$`,
	"%":  `\%`,
	"&":  `\&`,
	"_":  `\_`,
	"~":  `\textasciitilde{}`,
	"^":  `\textasciicircum{}`,
}

// defaultCharacterNormalization lists ordered literal replacements applied
// to free text after all other inline rules. Read-only.
var defaultCharacterNormalization = [][2]string{
	{"\u2019", "'"}, // right single quotation mark
	{"\u2264", `\leq`},
	{"\u2265", `\geq`},
	{"\u0153", "oe"},
	{"\u2013", "-"}, // en dash
}

// Default templates and paths.
const (
	defaultFiguresPDFPath = "../figures-pdfs"

	defaultCalloutEnvTemplate = "{type}box"

	defaultImageBlockTemplate = "\\begin{center}\n" +
		"{include_command}[width={width}{unit}]{{{path_prefix}/{source}{path_suffix}}}\n" +
		"\\end{center}"

	defaultInlineMathTemplate = "${content}$"

	defaultHorizontalRule = `\noindent\rule{\textwidth}{0.4pt}`
)
