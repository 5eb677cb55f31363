package carddb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

const basics = `
name: Forest
types: [BASIC, LAND]
subtypes: [Forest]
mana_abilities:
  - cost: {tap: true}
    gain: [GREEN]
---
name: Mountain
types: [BASIC, LAND]
subtypes: [Mountain]
mana_abilities:
  - cost: {tap: true}
    gain: [RED]
---
`

const creatures = `
name: Grizzly Bears
cost: "{1}{G}"
types: [CREATURE]
subtypes: [Bear]
power: 2
toughness: 2
`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestParseMultipleDocuments(t *testing.T) {
	defs, err := Parse(strings.NewReader(basics), "basics.yaml")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "Forest", defs[0].Name)
	assert.Equal(t, "Mountain", defs[1].Name)
	require.Len(t, defs[1].ManaAbilities, 1)
	assert.Equal(t, []mana.Mana{mana.Red}, defs[1].ManaAbilities[0].Gain)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown field", body: "name: X\ntypes: [LAND]\nflavor: text\n", want: "flavor"},
		{name: "bad cost", body: "name: X\ncost: \"{Q}\"\ntypes: [INSTANT]\n", want: "document 0"},
		{name: "invalid definition", body: "name: X\ntypes: [CREATURE]\n", want: "power and toughness"},
		{name: "second document", body: creatures + "---\nname: Y\ntypes: [WIZARD]\n", want: "document 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.body), "cards.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, err.Error(), "cards.yaml")
		})
	}
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "basics.yaml", basics)
	writeFile(t, filepath.Join(root, "creatures"), "green.yml", creatures)
	writeFile(t, root, "README.md", "not a card")

	lib, err := LoadDir([]string{root}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Forest", "Grizzly Bears", "Mountain"}, lib.Names())

	bears, ok := lib.Get("Grizzly Bears")
	require.True(t, ok)
	assert.Equal(t, 2, bears.Cost.CMC(0))
	_, ok = lib.Get("Llanowar Elves")
	assert.False(t, ok)
}

func TestLoadDirRejectsDuplicates(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, first, "a.yaml", creatures)
	writeFile(t, second, "b.yaml", creatures)

	_, err := LoadDir([]string{first, second}, nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir([]string{filepath.Join(t.TempDir(), "nope")}, nil)
	assert.Error(t, err)
}

func TestLibraryMerge(t *testing.T) {
	a := NewLibrary()
	require.NoError(t, a.Add(&card.Definition{Name: "Island", Types: []card.Type{card.TypeLand}}))
	b := NewLibrary()
	require.NoError(t, b.Add(&card.Definition{Name: "Swamp", Types: []card.Type{card.TypeLand}}))

	require.NoError(t, a.Merge(b))
	assert.Equal(t, 2, a.Len())
	assert.ErrorIs(t, a.Merge(b), ErrDuplicate)

	defs := a.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "Island", defs[0].Name)
}
