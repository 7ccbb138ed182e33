package classpack

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/classpack/internal/classpack"
)

// writeTree creates files under dir
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func values(matches []ClassMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		kind    FileKind
		content string
		want    []string
		sources []classpack.SourceType
		dynamic []bool
	}{
		{
			name: "html attributes",
			kind: KindHTML,
			content: `<div class="flex gap-2">
<p class='p-4 m-2'></p>`,
			want:    []string{"flex gap-2", "p-4 m-2"},
			sources: []classpack.SourceType{classpack.SourceHTML, classpack.SourceHTML},
			dynamic: []bool{false, false},
		},
		{
			name:    "bound and prefixed attributes are not class attributes",
			kind:    KindHTML,
			content: `<div :class="{ 'hidden': open }" x-bind:class="open ? 'a' : 'b'" data-class="flex gap-2" ng-class='p-4 m-2'>`,
			want:    []string{},
		},
		{
			name:    "attribute after newline and tab",
			kind:    KindHTML,
			content: "<div\n\tclass=\"flex gap-2\" data-class=\"p-4\">",
			want:    []string{"flex gap-2"},
			sources: []classpack.SourceType{classpack.SourceHTML},
			dynamic: []bool{false},
		},
		{
			name:    "escaped payload inside html",
			kind:    KindHTML,
			content: `<script>self.__next_f.push([1,"{\"className\":\"h-4 w-4\"}"])</script>`,
			want:    []string{"h-4 w-4"},
			sources: []classpack.SourceType{classpack.SourceRSC},
			dynamic: []bool{false},
		},
		{
			name:    "script properties",
			kind:    KindScript,
			content: `jsx("div",{className:"flex items-center"}),jsx("i",{className: 'h-4 w-4'}),e.className="nope"`,
			want:    []string{"flex items-center", "h-4 w-4"},
			sources: []classpack.SourceType{classpack.SourceJS, classpack.SourceJS},
			dynamic: []bool{false, false},
		},
		{
			name:    "template literals",
			kind:    KindScript,
			content: "jsx(\"a\",{className:`btn px-4 ${active}`}),jsx(\"b\",{className:`grid gap-4`})",
			want:    []string{"btn px-4 ", "grid gap-4"},
			sources: []classpack.SourceType{classpack.SourceJS, classpack.SourceJS},
			dynamic: []bool{true, false},
		},
		{
			name:    "flight payload",
			kind:    KindRSC,
			content: `1:["$","div",null,{"className":"flex gap-2","children":"x"}]`,
			want:    []string{"flex gap-2"},
			sources: []classpack.SourceType{classpack.SourceRSC},
			dynamic: []bool{false},
		},
		{
			name:    "unknown kind",
			kind:    KindUnknown,
			content: `<div class="flex gap-2">`,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Matches(tt.content, tt.kind))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, values(got))
			for i, m := range got {
				assert.Equal(t, m.Value, tt.content[m.Start:m.End], "offsets of %q", m.Value)
				assert.Equal(t, tt.sources[i], m.Source)
				assert.Equal(t, tt.dynamic[i], m.Dynamic)
			}
		})
	}
}

func TestMatchesLineNumbers(t *testing.T) {
	content := "<html>\n<div class=\"a b\">\n\n<span class=\"c d\"></span>\n<i class='e f'>"

	got := slices.Collect(Matches(content, KindHTML))
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 4, got[1].Line)
	assert.Equal(t, 5, got[2].Line)
}

func TestMatchesRestartable(t *testing.T) {
	seq := Matches(`<a class="x y"></a><b class="y z"></b>`, KindHTML)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// Stopping early is safe
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestFileKind(t *testing.T) {
	tests := []struct {
		path string
		want FileKind
	}{
		{path: "out/index.html", want: KindHTML},
		{path: "out/about.HTM", want: KindHTML},
		{path: "static/chunks/app.js", want: KindScript},
		{path: "server/app.mjs", want: KindScript},
		{path: "server/app.cjs", want: KindScript},
		{path: "server/app/page.rsc", want: KindRSC},
		{path: "static/css/app.css", want: KindUnknown},
		{path: "README", want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, fileKind(tt.path))
		})
	}
}

func TestScanFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html": `<div class="flex items-center gap-2">a</div>
<div class="gap-2 flex items-center">b</div>`,
		"static/chunks/app.js":           "jsx(\"div\",{className:\"flex items-center gap-2\"});jsx(\"a\",{className:`flex items-center ${a}`})",
		"static/chunks/framework-abc.js": `jsx("div",{className:"flex items-center gap-2"})`,
		"static/chunks/app.js.map":       `{"className":"flex items-center gap-2"}`,
		IgnoreFile:                       "static/chunks/framework-*.js\n",
	})

	result, err := ScanFiles(context.Background(), dir, []string{"**/*.html", "**/*.js", "**/*.map"}, classpack.ExcludeRules{}, nil)
	require.NoError(t, err)

	assert.Equal(t, ScanStats{FilesDiscovered: 4, FilesScanned: 2, FilesSkipped: 2}, result.Stats)
	require.Len(t, result.Files, 2)
	assert.Equal(t, filepath.Join(dir, "index.html"), result.Files[0].Path)

	occ := result.Occurrences["flex gap-2 items-center"]
	require.NotNil(t, occ)
	assert.Equal(t, 3, occ.Count)
	assert.Equal(t, "flex items-center gap-2", occ.ClassString)
	assert.True(t, occ.HasSource(classpack.SourceHTML))
	assert.True(t, occ.HasSource(classpack.SourceJS))
	assert.Equal(t, classpack.Location{File: filepath.Join(dir, "index.html"), Line: 1}, occ.Locations[0])

	require.Len(t, result.DynamicBases, 1)
	assert.Equal(t, "flex items-center", result.DynamicBases[0].NormalizedKey)
	assert.Equal(t, []string{"flex", "items-center"}, result.DynamicBases[0].BaseClasses)
}

func TestScanFilesDeterministic(t *testing.T) {
	dir := t.TempDir()
	files := make(map[string]string)
	for _, name := range []string{"a.html", "b/c.html", "d/e/f.html", "g.js"} {
		files[name] = `<div class="grid  gap-4 p-2"></div>` + "\n" + `{className:"p-2 gap-4 grid"}`
	}
	writeTree(t, dir, files)

	var first *ScanResult
	for i := 0; i < 5; i++ {
		result, err := ScanFiles(context.Background(), dir, []string{"**/*.html", "**/*.js"}, classpack.ExcludeRules{}, nil)
		require.NoError(t, err)
		if first == nil {
			first = result
			continue
		}
		assert.Equal(t, first.Occurrences, result.Occurrences)
	}
	assert.Equal(t, "grid  gap-4 p-2", first.Occurrences["gap-4 grid p-2"].ClassString)
}

func TestScanFilesCanceled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": `<div class="a b">`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanFiles(ctx, dir, []string{"**/*.html"}, classpack.ExcludeRules{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanFilesBadGlob(t *testing.T) {
	_, err := ScanFiles(context.Background(), t.TempDir(), []string{"[", "**/*.html"}, classpack.ExcludeRules{}, nil)
	require.Error(t, err)
}
