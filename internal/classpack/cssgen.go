package classpack

import (
	"sort"
	"strings"
)

// ruleGroup collects declarations that share a selector context
type ruleGroup struct {
	suffix  string
	atRules []string
	decls   []Declaration
	order   int
}

// GenerateCSS emits one rule per candidate and selector context that
// reproduces the declarations of its classes in stylesheet order.
// Candidates with a class missing from sheet are returned in unresolved and
// emit nothing.
func GenerateCSS(candidates []ConsolidationCandidate, sheet *Stylesheet) (string, []string) {
	var b strings.Builder
	var unresolved []string

	for _, c := range candidates {
		groups, ok := groupRules(c.Classes, sheet)
		if !ok {
			unresolved = append(unresolved, c.NormalizedKey)
			continue
		}

		selector := "." + escapeClassName(c.HashName)
		for _, g := range groups {
			writeRule(&b, selector+g.suffix, g.atRules, g.decls)
		}
	}

	return b.String(), unresolved
}

// ResolvableCandidates filters out candidates whose classes are not fully
// declared in sheet.
func ResolvableCandidates(candidates []ConsolidationCandidate, sheet *Stylesheet) (resolved []ConsolidationCandidate, unresolved []string) {
	for _, c := range candidates {
		if _, ok := groupRules(c.Classes, sheet); ok {
			resolved = append(resolved, c)
		} else {
			unresolved = append(unresolved, c.NormalizedKey)
		}
	}
	return resolved, unresolved
}

// groupRules merges the rules of classes by context, in stylesheet order
func groupRules(classes []string, sheet *Stylesheet) ([]*ruleGroup, bool) {
	var rules []Rule
	for _, class := range classes {
		r, ok := sheet.Lookup(class)
		if !ok {
			return nil, false
		}
		rules = append(rules, r...)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Order < rules[j].Order
	})

	var groups []*ruleGroup
	index := make(map[string]*ruleGroup)
	for _, r := range rules {
		key := strings.Join(r.AtRules, "\x00") + "\x01" + r.Suffix
		g, exists := index[key]
		if !exists {
			g = &ruleGroup{suffix: r.Suffix, atRules: r.AtRules, order: r.Order}
			index[key] = g
			groups = append(groups, g)
		}
		g.decls = append(g.decls, r.Declarations...)
	}

	return groups, true
}

// writeRule writes selector{decls}, nested inside each at-rule
func writeRule(b *strings.Builder, selector string, atRules []string, decls []Declaration) {
	for _, a := range atRules {
		b.WriteString(a)
		b.WriteByte('{')
	}

	b.WriteString(selector)
	b.WriteByte('{')
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.Property)
		b.WriteByte(':')
		b.WriteString(d.Value)
	}
	b.WriteByte('}')

	for range atRules {
		b.WriteByte('}')
	}
	b.WriteByte('\n')
}

// escapeClassName escapes characters that are not valid in a class selector
func escapeClassName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if i == 0 && c >= '0' && c <= '9' {
			b.WriteString(`\3`)
			b.WriteByte(c)
			b.WriteByte(' ')
			continue
		}
		if !isIdentByte(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
