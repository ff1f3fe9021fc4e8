package playground

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "playground", cmd.Use)

	for _, name := range []string{"lifecycle", "publishers", "subscribers", "cancellables", "operators", "subjects", "all"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	config := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "", config.DefValue)
}

func TestPages(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, e := range pages {
		t.Run(e.name, func(t *testing.T) {
			g.Assert(t, e.name, []byte(execute(t, e.name)))
		})
	}
}

func TestAllRunsEveryPage(t *testing.T) {
	var want bytes.Buffer
	for _, e := range pages {
		want.WriteString(execute(t, e.name))
	}
	assert.Equal(t, want.String(), execute(t, "all"))
}

func TestConfigPrintPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playground.yaml")
	require.NoError(t, os.WriteFile(path, []byte("combine:\n  print:\n    prefix: demo\n"), 0o600))

	out := execute(t, "--config", path, "lifecycle")
	assert.Contains(t, out, "demo: receive subscription")
	assert.Contains(t, out, "demo: receive value: (5)")
}

func TestMissingConfigFails(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "lifecycle"})
	assert.Error(t, cmd.Execute())
}
