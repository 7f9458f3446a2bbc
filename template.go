package loretex

import "strings"

// formatTemplate substitutes {key} placeholders with values, honoring
// doubled-brace escapes: "{{" renders "{" and "}}" renders "}". Placeholders
// without a matching key are left untouched, so templates can carry literal
// LaTeX braces (e.g. \begin{center}) without escaping every group.
func formatTemplate(template string, values map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			if end := strings.IndexByte(template[i:], '}'); end > 1 {
				key := template[i+1 : i+end]
				if value, ok := values[key]; ok {
					b.WriteString(value)
					i += end + 1
					continue
				}
			}
			b.WriteByte('{')
			i++
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			b.WriteByte('}')
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// normalizeLinkTemplate rewrites bare {url}/{text}/{label}/{keys}
// placeholders into the escaped triple-brace form, so user templates like
// \href{url}{text} produce braced arguments without the user spelling out
// {{{url}}}.
func normalizeLinkTemplate(template string) string {
	for _, key := range []string{"url", "text", "label", "keys"} {
		bare := "{" + key + "}"
		braced := "{{{" + key + "}}}"
		if strings.Contains(template, bare) && !strings.Contains(template, braced) {
			template = strings.ReplaceAll(template, bare, braced)
		}
	}
	return template
}

// ensureCommand prefixes command with a backslash unless it already has one.
func ensureCommand(command string) string {
	command = strings.TrimSpace(command)
	if strings.HasPrefix(command, "\\") {
		return command
	}
	return "\\" + command
}
