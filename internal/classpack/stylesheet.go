package classpack

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is one property: value pair
type Declaration struct {
	Property string
	Value    string
}

// Rule is one selector block that applies to a utility class
type Rule struct {
	Class        string        // Unescaped class name: "md:flex"
	Suffix       string        // Selector text after the class: ":hover"
	AtRules      []string      // Enclosing at-rules, outermost first
	Declarations []Declaration // In source order
	Order        int           // Position in the stylesheet
}

// Stylesheet is the class -> rules lookup table of a compiled stylesheet
type Stylesheet struct {
	rules   map[string][]Rule
	partial map[string]bool // Also used by selectors that cannot be reproduced
	count   int
}

// Lookup returns the rules declared for class. A class that also appears in
// a selector naming another class is not found.
func (s *Stylesheet) Lookup(class string) ([]Rule, bool) {
	if s == nil || s.partial[class] {
		return nil, false
	}
	rules, ok := s.rules[class]
	return rules, ok
}

// Len returns the number of classes with at least one rule
func (s *Stylesheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// sheetState maintains context while lexing a stylesheet
type sheetState struct {
	sheet   *Stylesheet
	atRules []string // Open at-rule blocks; "" for transparent blocks
}

// ParseStylesheet lexes compiled CSS and indexes every rule whose selector
// starts with a plain class.
func ParseStylesheet(content string) *Stylesheet {
	state := &sheetState{
		sheet: &Stylesheet{rules: make(map[string][]Rule), partial: make(map[string]bool)},
	}

	lexer := css.NewLexer(parse.NewInputString(content))
	var selector strings.Builder

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal
			break
		}

		switch tt {
		case css.CommentToken:
			continue
		case css.AtKeywordToken:
			selector.Reset()
			state.handleAtRule(lexer, string(text))
		case css.LeftBraceToken:
			decls := extractDeclarations(lexer)
			state.addRules(selector.String(), decls)
			selector.Reset()
		case css.RightBraceToken:
			// Closes the innermost at-rule block
			if len(state.atRules) > 0 {
				state.atRules = state.atRules[:len(state.atRules)-1]
			}
			selector.Reset()
		case css.SemicolonToken:
			selector.Reset()
		default:
			selector.Write(text)
		}
	}

	return state.sheet
}

// handleAtRule reads an at-rule prelude and opens a block when it has one
func (s *sheetState) handleAtRule(lexer *css.Lexer, keyword string) {
	var prelude strings.Builder
	prelude.WriteString(keyword)

	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken:
			// Statement at-rule: @import, @layer a, b;
			return
		case css.CommentToken:
			continue
		case css.LeftBraceToken:
			switch keyword {
			case "@layer":
				s.atRules = append(s.atRules, "")
			case "@keyframes", "@font-face", "@property", "@page":
				skipBlock(lexer)
			default:
				s.atRules = append(s.atRules, collapseSpace(prelude.String()))
			}
			return
		default:
			prelude.Write(text)
		}
	}
}

// addRules records the declaration block for each class selector in the list
func (s *sheetState) addRules(selectorList string, decls []Declaration) {
	if len(decls) == 0 {
		return
	}

	var atRules []string
	for _, a := range s.atRules {
		if a != "" {
			atRules = append(atRules, a)
		}
	}

	for _, sel := range splitSelectorList(selectorList) {
		class, suffix, ok := splitClassSelector(sel)
		if !ok {
			for _, c := range selectorClasses(sel) {
				s.sheet.partial[c] = true
			}
			continue
		}
		s.sheet.count++
		s.sheet.rules[class] = append(s.sheet.rules[class], Rule{
			Class:        class,
			Suffix:       suffix,
			AtRules:      atRules,
			Declarations: decls,
			Order:        s.sheet.count,
		})
	}
}

// extractDeclarations reads property: value pairs until the closing brace
func extractDeclarations(lexer *css.Lexer) []Declaration {
	var decls []Declaration
	var current strings.Builder
	depth := 0

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		prop, val, found := strings.Cut(text, ":")
		if !found {
			return
		}
		prop, val = strings.TrimSpace(prop), strings.TrimSpace(val)
		if prop == "" || val == "" {
			return
		}
		decls = append(decls, Declaration{Property: prop, Value: collapseSpace(val)})
	}

	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken:
			flush()
			return decls
		case css.CommentToken:
			continue
		case css.LeftBraceToken:
			// Nested blocks are not part of compiled utility output
			skipBlock(lexer)
			continue
		case css.RightBraceToken:
			flush()
			return decls
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.SemicolonToken:
			if depth <= 0 {
				flush()
				continue
			}
		}
		current.Write(text)
	}
}

// skipBlock consumes tokens up to the brace matching one already read
func skipBlock(lexer *css.Lexer) {
	depth := 1
	for depth > 0 {
		tt, _ := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
		}
	}
}

// splitSelectorList splits on top-level commas
func splitSelectorList(list string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '\\':
			i++
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(list[start:]))
}

// splitClassSelector returns the leading class of sel and the remainder.
// Selectors that reference a second class are ignored.
func splitClassSelector(sel string) (class, suffix string, ok bool) {
	sel = collapseSpace(sel)
	if len(sel) < 2 || sel[0] != '.' {
		return "", "", false
	}

	end := identEnd(sel, 1)
	class = unescapeIdent(sel[1:end])
	suffix = sel[end:]
	if class == "" || strings.Contains(stripEscapes(suffix), ".") {
		return "", "", false
	}
	return class, suffix, true
}

// selectorClasses returns every class named in sel
func selectorClasses(sel string) []string {
	var classes []string
	for i := 0; i < len(sel); i++ {
		switch sel[i] {
		case '\\':
			i++
		case '.':
			end := identEnd(sel, i+1)
			if class := unescapeIdent(sel[i+1 : end]); class != "" {
				classes = append(classes, class)
			}
			i = end - 1
		}
	}
	return classes
}

// identEnd returns the index just past the identifier starting at start
func identEnd(s string, start int) int {
	end := start
	for end < len(s) {
		c := s[end]
		if c == '\\' && end+1 < len(s) {
			end += 2
			continue
		}
		if !isIdentByte(c) {
			break
		}
		end++
	}
	return end
}

// isIdentByte reports whether c can appear unescaped in a CSS identifier
func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// unescapeIdent resolves CSS escapes: "md\:flex" -> "md:flex", "\32 xl" -> "2xl"
func unescapeIdent(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && j-i <= 6 && isHexByte(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[j])
			i = j
			continue
		}
		if r, err := strconv.ParseUint(s[i+1:j], 16, 32); err == nil {
			b.WriteRune(rune(r))
		}
		// A single whitespace terminates a hex escape
		if j < len(s) && s[j] == ' ' {
			j++
		}
		i = j - 1
	}
	return b.String()
}

// stripEscapes drops escaped characters so they are not mistaken for syntax
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// collapseSpace trims s and folds whitespace runs into one space
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
