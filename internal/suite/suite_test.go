package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/stretchr/testify/assert"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test file %q: %v", name, err)
	}
	return path
}

const validSuite = `format = "STL"
type = "SUITE"

[suite]
name = "engine requirements"
target = "tree"

[[signal]]
name = "temp"
column = 0
dtype = "float"

[[signal]]
name = "engine_on"
column = 1
dtype = "bool"

[[requirement]]
name = "cooldown"
formula = "[] (engine_on -> <> [0, 10] temp <= 90)"

[[requirement]]
name = "never-melts"
formula = "always (temp <= 150)"
`

func Test_LoadSuiteFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := writeTestFile(t, dir, "engine.sts", validSuite)

	s, err := LoadSuiteFile(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("engine requirements", s.Name)
	assert.Equal(trans.TargetTree, s.Target)
	assert.Equal(2, s.Decls.Len())

	b, ok := s.Decls.Get("temp")
	if assert.True(ok) {
		assert.Equal(0, b.Column)
		assert.Equal(trans.Float, b.DType)
	}

	if assert.Len(s.Requirements, 2) {
		assert.Equal("cooldown", s.Requirements[0].Name)
		assert.Equal("never-melts", s.Requirements[1].Name)
	}
}

func Test_LoadSuiteFile_errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "wrong format entry",
			content: `format = "CSV"
type = "SUITE"
`,
		},
		{
			name: "unknown file type",
			content: `format = "STL"
type = "WORLD"
`,
		},
		{
			name: "bad dtype",
			content: `format = "STL"
type = "SUITE"

[[signal]]
name = "x"
column = 0
dtype = "quaternion"
`,
		},
		{
			name: "duplicate requirement name",
			content: `format = "STL"
type = "SUITE"

[[requirement]]
name = "r1"
formula = "x <= 1"

[[requirement]]
name = "r1"
formula = "x <= 2"
`,
		},
		{
			name: "requirement with empty formula",
			content: `format = "STL"
type = "SUITE"

[[requirement]]
name = "r1"
formula = "  "
`,
		},
		{
			name: "bad target",
			content: `format = "STL"
type = "SUITE"

[suite]
target = "quantum"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dir := t.TempDir()
			path := writeTestFile(t, dir, "bad.sts", tc.content)

			_, err := LoadBundle(path)
			assert.Error(err)
		})
	}
}

func Test_LoadBundle_manifest(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	writeTestFile(t, dir, "signals.sts", `format = "STL"
type = "SUITE"

[suite]
name = "split suite"
target = "linear"

[[signal]]
name = "alt"
column = 0
dtype = "float"
`)
	writeTestFile(t, dir, "reqs.sts", `format = "STL"
type = "SUITE"

[[requirement]]
name = "alt-nonneg"
formula = "always (alt >= 0)"
`)
	manifPath := writeTestFile(t, dir, "all.sts", `format = "STL"
type = "MANIFEST"
files = ["signals.sts", "reqs.sts"]
`)

	s, err := LoadBundle(manifPath)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("split suite", s.Name)
	assert.Equal(trans.TargetLinear, s.Target)
	assert.Equal(1, s.Decls.Len())
	if assert.Len(s.Requirements, 1) {
		assert.Equal("alt-nonneg", s.Requirements[0].Name)
	}
}

func Test_LoadBundle_manifestErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	emptyManif := writeTestFile(t, dir, "empty.sts", `format = "STL"
type = "MANIFEST"
files = []
`)
	_, err := LoadBundle(emptyManif)
	assert.ErrorIs(err, ErrManifestEmpty, "empty manifest")

	writeTestFile(t, dir, "a.sts", `format = "STL"
type = "MANIFEST"
files = ["b.sts"]
`)
	circular := writeTestFile(t, dir, "b.sts", `format = "STL"
type = "MANIFEST"
files = ["a.sts"]
`)
	_, err = LoadBundle(circular)
	assert.ErrorIs(err, ErrManifestCircularRef, "circular manifests")
}

func Test_ScanFileInfo(t *testing.T) {
	assert := assert.New(t)

	info, err := ScanFileInfo([]byte(validSuite))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("STL", info.Format)
	assert.Equal("SUITE", info.Type)
}
