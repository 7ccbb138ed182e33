package classpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceContexts(t *testing.T) {
	tests := []struct {
		name    string
		sources map[SourceType]bool
		markup  bool
		script  bool
	}{
		{name: "none", sources: nil},
		{name: "html", sources: map[SourceType]bool{SourceHTML: true}, markup: true},
		{name: "js", sources: map[SourceType]bool{SourceJS: true}, script: true},
		{name: "rsc counts as script", sources: map[SourceType]bool{SourceRSC: true}, script: true},
		{name: "both", sources: map[SourceType]bool{SourceHTML: true, SourceJS: true}, markup: true, script: true},
		{name: "false entries ignored", sources: map[SourceType]bool{SourceHTML: false, SourceJS: true}, script: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := &ClassOccurrence{SourceTypes: tt.sources}
			assert.Equal(t, tt.markup, occ.InMarkup())
			assert.Equal(t, tt.script, occ.InScript())
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "cp-", c.HashPrefix)
	assert.Equal(t, NamingSequential, c.Naming)
	assert.GreaterOrEqual(t, c.MinOccurrences, 1)
	assert.GreaterOrEqual(t, c.MinClasses, 1)
	assert.True(t, c.HashLength >= 3 && c.HashLength <= 32)
}
