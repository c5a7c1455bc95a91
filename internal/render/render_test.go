package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/diogo/geminichat/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	opts := OptionsFromConfig(config.MarkdownConfig{Style: "light", EnableEmoji: false, PreserveNewLines: true}, 100)
	if opts.Width != 100 || opts.Style != "light" || opts.EnableEmoji || !opts.PreserveNewLines {
		t.Errorf("unexpected options: %+v", opts)
	}

	opts = OptionsFromConfig(config.MarkdownConfig{}, 60)
	if opts.Style != "dark" {
		t.Errorf("empty style should keep default, got %q", opts.Style)
	}

	t.Setenv("GLAMOUR_STYLE", "dracula")
	opts = OptionsFromConfig(config.MarkdownConfig{Style: "light"}, 60)
	if opts.Style != "dracula" {
		t.Errorf("GLAMOUR_STYLE should win, got %q", opts.Style)
	}
}

func TestMarkdown(t *testing.T) {
	opts := DefaultOptions().WithWidth(60)
	opts.Style = "notty"

	out, err := Markdown("# Title\n\nSome **bold** text.", opts)
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("rendered output missing content: %q", out)
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	opts := DefaultOptions()
	opts.Style = "notty"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("- a\n- b", opts); err != nil {
				t.Errorf("Markdown failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if PoolCount() == 0 {
		t.Error("expected a renderer pool")
	}
}

func TestMarkdownOrPlain_BadStyle(t *testing.T) {
	opts := DefaultOptions()
	opts.Style = "/nonexistent/style.json"

	if got := MarkdownOrPlain("plain text", opts); got != "plain text" {
		t.Errorf("expected raw fallback, got %q", got)
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		theme, ok := ThemeByName(name)
		if !ok || theme.Name != name {
			t.Errorf("ThemeByName(%q) = %v, %v", name, theme.Name, ok)
		}
	}

	theme, ok := ThemeByName("unknown")
	if ok || theme.Name != DefaultThemeName {
		t.Errorf("unknown theme should fall back to default, got %q", theme.Name)
	}
}
