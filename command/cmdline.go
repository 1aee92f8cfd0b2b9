package command

import "strings"

// Translate a command line string into a sequence of arguments, using the same rules as the MS C runtime:
// 1) Arguments are delimited by white space, which is either a space or a tab.
// 2) A string surrounded by double quotation marks is interpreted as a single argument,
//	regardless of white space contained within.  A quoted string can be embedded in an argument.
// 3) A double quotation mark preceded by a backslash is interpreted as a literal double quotation mark.
// 4) Backslashes are interpreted literally, unless they immediately precede a double quotation mark.
func list2Cmdline(cmd string) []string {
	var cmdParts []string
	var inQuote rune
	var pending bool

	var b strings.Builder
	runes := []rune(cmd)
	for i, ch := range runes {
		switch {
		case ch == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			// escaped quote: the quote itself is written on the next rune
		case ch == '"' && i > 0 && runes[i-1] == '\\':
			b.WriteRune(ch)
			pending = true
		case ch == '"' || ch == '\'':
			switch inQuote {
			case 0:
				inQuote = ch
				pending = true
			case ch:
				inQuote = 0
			default:
				b.WriteRune(ch)
			}
		case (ch == ' ' || ch == '\t') && inQuote == 0:
			if pending {
				cmdParts = append(cmdParts, b.String())
				b.Reset()
				pending = false
			}
		default:
			b.WriteRune(ch)
			pending = true
		}
	}
	if pending {
		cmdParts = append(cmdParts, b.String())
	}
	return cmdParts
}
