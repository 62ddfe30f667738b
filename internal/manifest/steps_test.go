package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Document {
	t.Helper()
	d, err := Parse([]byte(s))
	require.NoError(t, err)
	return d
}

func allSteps(t *testing.T) []Step {
	t.Helper()
	deps, err := DevDependencies(Entry{Key: "postcss", Value: "^8.5.3"})
	require.NoError(t, err)
	steps := CustomizeSteps("HML v1.0.0")
	steps = append(steps,
		InsertEntries(SectionScripts, Entry{Key: "build:css", Value: "postcss a -o b"}),
		deps,
		SetField(Key("scripts", "start"), "npm run dev"),
	)
	return steps
}

func TestSteps_Idempotent(t *testing.T) {
	docs := []string{
		themeManifest,
		`{"name": "x", "scripts": {}}`,
		`{}`,
		`{"scripts": "not an object", "devDependencies": []}`,
	}

	for _, src := range docs {
		d := mustParse(t, src)
		for _, step := range allSteps(t) {
			t.Run(step.Name, func(t *testing.T) {
				once := step.Apply(d)
				twice := step.Apply(once)
				assert.True(t, Equal(once, twice), "step %q is not idempotent on %s", step.Name, src)
			})
		}
	}
}

func TestApply_FullSequenceIdempotent(t *testing.T) {
	d := mustParse(t, themeManifest)
	steps := allSteps(t)

	once := Apply(d, steps...)
	twice := Apply(once, steps...)
	assert.True(t, Equal(once, twice))
}

func TestApply_OrderIndependent(t *testing.T) {
	d := mustParse(t, themeManifest)
	steps := allSteps(t)
	require.NoError(t, Disjoint(steps...))

	reversed := make([]Step, len(steps))
	for i, s := range steps {
		reversed[len(steps)-1-i] = s
	}

	a := Apply(d, steps...)
	b := Apply(d, reversed...)

	// Insertion order of new keys can differ; compare values.
	for _, p := range []Path{
		Key("name"), Key("scripts", "build:css"), Key("scripts", "start"),
		Key("devDependencies", "postcss"),
	} {
		va, _ := a.Get(p)
		vb, _ := b.Get(p)
		assert.Equal(t, va, vb, p.String())
	}
	assert.Equal(t, a.Has(Key("repository")), b.Has(Key("repository")))
	assert.Equal(t, a.Has(Key("scripts", "prepare")), b.Has(Key("scripts", "prepare")))
}

func TestCustomizeSteps_MinimalManifest(t *testing.T) {
	d := mustParse(t, `{"name": "copenhagen_theme", "scripts": {}}`)

	out := Apply(d, CustomizeSteps("HML v1.0.0")...)

	name, ok := out.GetString(Key("name"))
	require.True(t, ok)
	assert.Equal(t, "HML v1.0.0", name)
	assert.False(t, out.Has(Key("repository")))
	assert.False(t, out.Has(Key("scripts", "prepare")))
	assert.True(t, out.Has(Key("scripts")))
}

func TestCustomizeSteps_ThemeManifest(t *testing.T) {
	out := Apply(mustParse(t, themeManifest), CustomizeSteps("HML v1.0.0")...)

	assert.Equal(t, []string{"name", "version", "scripts", "devDependencies", "files"}, out.Keys())
	scripts, _ := out.Get(Key("scripts"))
	assert.Equal(t, []string{"start", "build"}, scripts.(Document).Keys())
}

func TestInsertEntries_AbsentSectionIsNoOp(t *testing.T) {
	d := mustParse(t, `{"name": "x"}`)
	step := InsertEntries(SectionDevDependencies, Entry{Key: "tailwindcss", Value: "^3.4.17"})

	out := step.Apply(d)
	assert.True(t, Equal(d, out))
}

func TestInsertEntries_OverwritesInPlace(t *testing.T) {
	d := mustParse(t, `{"scripts": {"start": "old", "build": "b"}}`)
	step := InsertEntries(SectionScripts,
		Entry{Key: "start", Value: "new"},
		Entry{Key: "watch:css", Value: "w"},
	)

	out := step.Apply(d)
	scripts, _ := out.Get(Key("scripts"))
	assert.Equal(t, []string{"start", "build", "watch:css"}, scripts.(Document).Keys())
	start, _ := out.GetString(Key("scripts", "start"))
	assert.Equal(t, "new", start)
}

func TestDisjoint_DetectsOverlap(t *testing.T) {
	err := Disjoint(
		RemoveEntry(SectionScripts, "prepare"),
		SetField(Key("scripts", "prepare"), "x"),
	)
	assert.Error(t, err)

	err = Disjoint(
		RemoveField(Key("scripts")),
		InsertEntries(SectionScripts, Entry{Key: "a", Value: "b"}),
	)
	assert.Error(t, err, "a parent removal overlaps its children")

	assert.NoError(t, Disjoint(CustomizeSteps("x")...))
}

func TestDevDependencies_InvalidRange(t *testing.T) {
	_, err := DevDependencies(Entry{Key: "postcss", Value: "not-a-version!!"})
	assert.Error(t, err)

	_, err = DevDependencies(Entry{Key: "", Value: "^1.0.0"})
	assert.Error(t, err)

	step, err := DevDependencies(
		Entry{Key: "autoprefixer", Value: "^10.4.21"},
		Entry{Key: "postcss-cli", Value: "^11.0.1"},
	)
	require.NoError(t, err)
	assert.Len(t, step.Writes, 2)
}
