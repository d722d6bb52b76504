package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidelta/internal/baseline"
	"apidelta/internal/errors"
	"apidelta/internal/modifiers"
)

func TestLoadFormats(t *testing.T) {
	var docs []*Document
	for _, name := range []string{"reference.yaml", "reference.toml", "reference.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("testdata", name)
			doc, err := ReadFile(path)
			require.NoError(t, err)
			docs = append(docs, doc)

			b, err := Load(path, nil)
			require.NoError(t, err)
			checkReference(t, b)
		})
	}
	require.Len(t, docs, 3)
	assert.Equal(t, docs[0], docs[1])
	assert.Equal(t, docs[0], docs[2])
}

func checkReference(t *testing.T, b *baseline.Baseline) {
	t.Helper()

	assert.Equal(t, "reference", b.Name())
	assert.Equal(t, []string{"acme.core", "acme.util"}, b.IDs())

	core, ok := b.Component("acme.core")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", core.Version)
	assert.Equal(t, []string{"JavaSE-17"}, core.ExecutionEnvironments)
	assert.Equal(t, []baseline.RequiredComponent{{ID: "acme.util", VersionRange: "[1.0.0,2.0.0)", Exported: true}}, core.Required)

	assert.Equal(t, modifiers.PrivateVisibility, core.Annotation(baseline.TypeHandle("a.Internal")).Visibility)
	assert.Equal(t, modifiers.NoExtend, core.Annotation(baseline.TypeHandle("a.Foo")).Restrictions)
	assert.Equal(t, baseline.DefaultAnnotation, core.Annotation(baseline.TypeHandle("a.Unlisted")))

	root, ok := core.FindType("a.Listener")
	require.True(t, ok)
	desc, err := root.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, baseline.KindInterface, desc.Kind())
	onEvent, ok := desc.Method("onEvent", "(Ljava/lang/Object;)V")
	require.True(t, ok)
	assert.True(t, onEvent.Access.IsAbstract())
	describe, ok := desc.Method("describe", "()Ljava/lang/String;")
	require.True(t, ok)
	assert.False(t, describe.Access.IsAbstract())

	root, ok = core.FindType("a.Foo")
	require.True(t, ok)
	desc, err = root.Descriptor()
	require.NoError(t, err)
	ctor, ok := desc.Constructor("()V")
	require.True(t, ok)
	assert.Equal(t, "<init>", ctor.Name)

	root, ok = core.FindType("a.Internal")
	require.True(t, ok)
	desc, err = root.Descriptor()
	require.NoError(t, err)
	limit, ok := desc.Field("LIMIT")
	require.True(t, ok)
	assert.True(t, limit.IsConstant())

	util, ok := b.Component("acme.util")
	require.True(t, ok)
	broken, ok := util.FindType("u.Broken")
	require.True(t, ok)
	_, err = broken.Descriptor()
	assert.True(t, errors.HasCode(err, errors.StructuralRead))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"unknown yaml key", FormatYAML, "name: x\ncolour: red\n"},
		{"unknown json key", FormatJSON, `{"name": "x", "colour": "red"}`},
		{"unknown toml key", FormatTOML, "name = \"x\"\ncolour = \"red\"\n"},
		{"malformed yaml", FormatYAML, "components: [\n"},
		{"unknown format", Format("ini"), "name=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ManifestInvalid))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate component", "components:\n  - id: a\n  - id: a\n"},
		{"missing id", "components:\n  - version: 1.0.0\n"},
		{"bad version", "components:\n  - id: a\n    version: one\n"},
		{"bad range", "components:\n  - id: a\n    requires:\n      - id: b\n        range: \"[x\"\n"},
		{"bad modifier", "components:\n  - id: a\n    containers:\n      - types:\n          - name: a.A\n            modifiers: [sealed]\n"},
		{"bad visibility", "components:\n  - id: a\n    api:\n      elements:\n        - type: a.A\n          visibility: friends\n"},
		{"method without descriptor", "components:\n  - id: a\n    containers:\n      - types:\n          - name: a.A\n            methods:\n              - name: run\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input), FormatYAML)
			require.NoError(t, err)
			_, err = doc.Build(nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ManifestInvalid), err.Error())
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"b.YML":  FormatYAML,
		"c.toml": FormatTOML,
		"d.json": FormatJSON,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("e.xml")
	assert.True(t, errors.HasCode(err, errors.ManifestInvalid))
}

func TestReadFileNamesBaseline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, writeFile(path, `{"components": [{"id": "a"}]}`))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "profile", doc.Name)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.HasCode(err, errors.ManifestInvalid))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
