package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestExecute_RunsRootTree(t *testing.T) {
	old := rootCmd
	defer func() { rootCmd = old }()

	rootCmd = NewRootCmd(newTestDeps().Dependencies)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})

	// A successful run returns without exiting
	Execute()

	if !strings.Contains(out.String(), "geminichat "+Version+" (built "+BuildTime+")") {
		t.Errorf("Expected version line from the root command, got %q", out.String())
	}
}

func TestExecute_ConfigPath(t *testing.T) {
	dir := setupHome(t)

	old := rootCmd
	defer func() { rootCmd = old }()

	rootCmd = NewRootCmd(newTestDeps().Dependencies)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "path"})

	Execute()

	if !strings.HasPrefix(strings.TrimSpace(out.String()), dir) {
		t.Errorf("Expected config path under %s, got %q", dir, out.String())
	}
}
