package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// seedSessions sends one prompt per title through the mock provider
func seedSessions(t *testing.T, deps *Dependencies, titles ...string) {
	t.Helper()
	for _, title := range titles {
		if res := runCLI(t, deps, "", "-p", "mock", title); res.err != nil {
			t.Fatalf("seeding %q failed: %v", title, res.err)
		}
	}
}

func TestHistoryCommand(t *testing.T) {
	cmd := newHistoryCmd(&globalOptions{})

	if cmd.Use != "history" {
		t.Errorf("Expected use 'history', got %s", cmd.Use)
	}

	expected := []string{"list", "show", "delete", "clear", "rename", "export", "search", "stats"}
	for _, sub := range expected {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %s not found", sub)
		}
	}

	if !strings.Contains(cmd.Long, "@last") {
		t.Error("Long help should list the reference aliases")
	}
}

func TestHistoryList_Empty(t *testing.T) {
	setupHome(t)

	res := runCLI(t, newTestDeps().Dependencies, "", "history", "list")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "No conversations found.") {
		t.Errorf("Expected empty message, got %q", res.stdout)
	}
}

func TestHistoryList_Order(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "alpha topic", "beta topic")

	res := runCLI(t, deps, "", "history", "list")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	alpha := strings.Index(res.stdout, "alpha topic")
	beta := strings.Index(res.stdout, "beta topic")
	if alpha < 0 || beta < 0 || beta > alpha {
		t.Errorf("Expected most recent first, got %q", res.stdout)
	}
}

func TestHistoryShow(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "show me")

	res := runCLI(t, deps, "", "history", "show", "1")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	for _, want := range []string{"Title: show me", "Messages: 2", "] You (", "] Gemini (", "You said:"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestHistoryShow_Ambiguous(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "go channels", "go generics")

	res := runCLI(t, deps, "", "history", "show", "go")
	if res.err == nil || !strings.Contains(res.err.Error(), "multiple sessions match") {
		t.Errorf("Expected ambiguity error, got %v", res.err)
	}
}

func TestHistoryDelete(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "keep this", "drop this")

	res := runCLI(t, deps, "", "history", "delete", "drop")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Deleted conversation: drop this") {
		t.Errorf("Unexpected output: %q", res.stdout)
	}

	list := runCLI(t, deps, "", "history", "list")
	if strings.Contains(list.stdout, "drop this") || !strings.Contains(list.stdout, "keep this") {
		t.Errorf("Unexpected list after delete: %q", list.stdout)
	}
}

func TestHistoryClear(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "one", "two")

	if res := runCLI(t, deps, "", "history", "clear"); res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	list := runCLI(t, deps, "", "history", "list")
	if !strings.Contains(list.stdout, "No conversations found.") {
		t.Errorf("Expected empty history, got %q", list.stdout)
	}
}

func TestHistoryRename(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "original title")

	res := runCLI(t, deps, "", "history", "rename", "@last", "  Better title ")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	show := runCLI(t, deps, "", "history", "show", "@last")
	if !strings.Contains(show.stdout, "Title: Better title\n") {
		t.Errorf("Rename not persisted: %q", show.stdout)
	}

	// A later message does not overwrite a custom title
	if r := runCLI(t, deps, "", "-p", "mock", "-s", "@last", "more"); r.err != nil {
		t.Fatal(r.err)
	}
	show = runCLI(t, deps, "", "history", "show", "@last")
	if !strings.Contains(show.stdout, "Title: Better title\n") {
		t.Errorf("Custom title should stick: %q", show.stdout)
	}
}

func TestHistoryRename_Blank(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "title")

	res := runCLI(t, deps, "", "history", "rename", "1", "   ")
	if res.err == nil {
		t.Error("Expected error for blank title")
	}
}

func TestHistoryExport(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "export me")

	t.Run("markdown", func(t *testing.T) {
		res := runCLI(t, deps, "", "history", "export", "@last")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.HasPrefix(res.stdout, "# export me\n") {
			t.Errorf("Unexpected markdown: %q", res.stdout)
		}
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, deps, "", "history", "export", "@last", "-f", "json")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		var out struct {
			Title    string `json:"title"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if out.Title != "export me" || len(out.Messages) != 2 || out.Messages[1].Role != "assistant" {
			t.Errorf("Unexpected export: %+v", out)
		}
	})

	t.Run("yaml to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		res := runCLI(t, deps, "", "history", "export", "@last", "-f", "yml", "-o", path)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var out map[string]any
		if err := yaml.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid yaml: %v", err)
		}
		if out["title"] != "export me" {
			t.Errorf("Unexpected yaml title: %v", out["title"])
		}
	})

	t.Run("bad format", func(t *testing.T) {
		res := runCLI(t, deps, "", "history", "export", "@last", "-f", "pdf")
		if res.err == nil || !strings.Contains(res.err.Error(), "unsupported export format") {
			t.Errorf("Expected format error, got %v", res.err)
		}
	})
}

func TestHistorySearch(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "gardening tips", "cooking pasta")

	res := runCLI(t, deps, "", "history", "search", "pasta")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "cooking pasta") || strings.Contains(res.stdout, "gardening") {
		t.Errorf("Unexpected title search output: %q", res.stdout)
	}

	res = runCLI(t, deps, "", "history", "search", "You said")
	if !strings.Contains(res.stdout, "No conversations matching") {
		t.Errorf("Content should not be searched without --content: %q", res.stdout)
	}

	res = runCLI(t, deps, "", "history", "search", "--content", "You said")
	if strings.Count(res.stdout, "session_") != 2 || !strings.Contains(res.stdout, "[2]") {
		t.Errorf("Expected content matches in both sessions: %q", res.stdout)
	}
}

func TestHistoryStats(t *testing.T) {
	setupHome(t)
	deps := newTestDeps().Dependencies
	seedSessions(t, deps, "first", "second")

	res := runCLI(t, deps, "", "history", "stats")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	for _, want := range []string{"Storage: file", "Sessions: 2", "Messages: 4"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stats output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is long", 4, "this..."},
		{"line\nbreak", 20, "line break"},
		{"ünïcödé", 3, "ünï..."},
	}
	for _, tt := range tests {
		if got := truncateTitle(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateTitle(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
