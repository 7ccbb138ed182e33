package classpack

import "strings"

// CSS overhead model used during detection. Calibrated against the emitted
// rule shape, not measured from GenerateCSS.
const (
	CSSRuleBaseBytes    = 10 // ".x{", "}", newlines
	CSSDeclarationBytes = 20 // "property:value;" plus newline, per class
)

// CalculateBytesSaved returns the net byte delta of replacing the included
// part of original with name across frequency occurrences. May be negative.
func CalculateBytesSaved(original, name string, frequency int, excluded []string) int {
	includedLength := len(original)
	if len(excluded) > 0 {
		includedLength -= len(strings.Join(excluded, " ")) + 1
	}
	return (includedLength - len(name)) * frequency
}

// EstimateCSSOverhead returns the bytes needed to declare one consolidated rule
func EstimateCSSOverhead(classCount int) int {
	return CSSRuleBaseBytes + classCount*CSSDeclarationBytes
}

// HasNetPositiveSavings reports whether savings strictly exceed the CSS cost
func HasNetPositiveSavings(bytesSaved, classCount int) bool {
	return bytesSaved > EstimateCSSOverhead(classCount)
}
