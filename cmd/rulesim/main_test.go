package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleCards  = "../../cards"
	sampleConfig = "../../config/rulesim.yaml"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RULESIM_LOGGING_LEVEL", "error")
	t.Setenv("RULESIM_CARDS_DATABASE_URL", "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func digestLine(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "digest: ") {
			return line
		}
	}
	t.Fatalf("no digest in output:\n%s", out)
	return ""
}

func TestCardsValidate(t *testing.T) {
	out, err := execute(t, "cards", "validate", "--dir", sampleCards)
	require.NoError(t, err)
	assert.Equal(t, "9 card definitions OK\n", out)
}

func TestCardsValidateRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: Nameless Horror\ntypes: [CREATURE]\n"), 0o600))

	_, err := execute(t, "cards", "validate", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestCardsImportNeedsDatabase(t *testing.T) {
	_, err := execute(t, "cards", "import", "--dir", sampleCards)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestSimulateAndReplay(t *testing.T) {
	rec := filepath.Join(t.TempDir(), "game.rec")

	out, err := execute(t, "--config", sampleConfig, "--dir", sampleCards,
		"simulate", "--turns", "4", "--digest", "--record", rec)
	require.NoError(t, err)
	assert.Contains(t, out, "turn 5\n")
	assert.Contains(t, out, "Alice: ")
	assert.Contains(t, out, "Bob: ")
	first := digestLine(t, out)

	out, err = execute(t, "--config", sampleConfig, "--dir", sampleCards,
		"simulate", "--turns", "4", "--digest")
	require.NoError(t, err)
	assert.Equal(t, first, digestLine(t, out))

	out, err = execute(t, "--config", sampleConfig, "--dir", sampleCards, "replay", rec)
	require.NoError(t, err)
	assert.Contains(t, out, "replay matches")
}

func TestSimulateSeedChangesTheGame(t *testing.T) {
	out, err := execute(t, "--config", sampleConfig, "--dir", sampleCards,
		"simulate", "--turns", "1", "--seed", "1", "--digest")
	require.NoError(t, err)
	one := digestLine(t, out)

	out, err = execute(t, "--config", sampleConfig, "--dir", sampleCards,
		"simulate", "--turns", "1", "--seed", "2", "--digest")
	require.NoError(t, err)
	assert.NotEqual(t, one, digestLine(t, out))
}

func TestSimulateUnknownCard(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rulesim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
simulation:
  players:
    - name: Alice
      deck: ["20 Forest"]
    - name: Bob
      deck: ["20 Island"]
`), 0o600))

	_, err := execute(t, "--config", cfgPath, "--dir", sampleCards, "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Island")
}
