package validation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/droidbuild/internal/version"
)

func saveState(t *testing.T, dir string, st BuildState) {
	t.Helper()
	require.NoError(t, st.Save(dir))
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := LoadState(dir)
	require.NoError(t, err)
	require.Nil(t, st)

	want := BuildState{BuildID: "b1", ToolVersion: version.Version, Fingerprint: "abc",
		SourceFiles: 2, ClassFiles: 3, DexFiles: []string{"classes.dex"}, FinishedAt: time.Unix(10, 0).UTC()}
	saveState(t, dir, want)

	got, err := LoadState(dir)
	require.NoError(t, err)
	want.SchemaVersion = stateSchemaVersion
	require.Equal(t, &want, got)
}

func TestSkipEvaluator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classes.dex"), []byte("dex"), 0o600))

	eval := NewSkipEvaluator(dir)
	_, ok := eval.Evaluate("fp", true)
	require.False(t, ok, "no state yet")

	saveState(t, dir, BuildState{ToolVersion: version.Version, Fingerprint: "fp", ClassFiles: 1, DexFiles: []string{"classes.dex"}})

	prev, ok := eval.Evaluate("fp", true)
	require.True(t, ok)
	require.Equal(t, []string{"classes.dex"}, prev.DexFiles)

	_, ok = eval.Evaluate("changed", true)
	require.False(t, ok)

	require.NoError(t, os.Remove(filepath.Join(dir, "classes.dex")))
	_, ok = eval.Evaluate("fp", true)
	require.False(t, ok, "missing output")
}

func TestSkipEvaluatorVersionChange(t *testing.T) {
	dir := t.TempDir()
	saveState(t, dir, BuildState{ToolVersion: "0.0.0-other", Fingerprint: "fp"})
	_, ok := NewSkipEvaluator(dir).Evaluate("fp", false)
	require.False(t, ok)
}

func TestSkipEvaluatorCorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("{"), 0o600))
	_, ok := NewSkipEvaluator(dir).Evaluate("fp", false)
	require.False(t, ok)
}

func TestRuleChainStopsAtFirstFailure(t *testing.T) {
	res := NewRuleChain(PreviousStateRule{}, FingerprintRule{}).Validate(Context{Fingerprint: "x"})
	require.False(t, res.Passed)
	require.Equal(t, "no previous build state", res.Reason)
}
