package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/history"
	"github.com/diogo/geminichat/internal/models"
)

func newHistoryCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage conversation history",
		Long: `View and manage your saved chat sessions.

` + history.ListAliases(),
	}

	cmd.AddCommand(newHistoryListCmd(global))
	cmd.AddCommand(newHistoryShowCmd(global))
	cmd.AddCommand(newHistoryDeleteCmd(global))
	cmd.AddCommand(newHistoryClearCmd(global))
	cmd.AddCommand(newHistoryRenameCmd(global))
	cmd.AddCommand(newHistoryExportCmd(global))
	cmd.AddCommand(newHistorySearchCmd(global))
	cmd.AddCommand(newHistoryStatsCmd(global))
	return cmd
}

func newHistoryListCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			sessions := env.sessions().Sessions()
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No conversations found.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "#\tID\tTITLE\tMESSAGES\tUPDATED")
			_, _ = fmt.Fprintln(w, "-\t--\t-----\t--------\t-------")
			for i, s := range sessions {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					i+1, s.ID, truncateTitle(s.Title, 40), len(s.Messages), history.FormatRelative(s.UpdatedAt, now))
			}
			return w.Flush()
		},
	}
}

func newHistoryShowCmd(global *globalOptions) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <ref>",
		Short: "Show a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			sess, err := history.NewResolver(env.sessions()).Resolve(args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), sess, full)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print messages without truncation")
	return cmd
}

func printSession(out io.Writer, sess *models.Session, full bool) {
	fmt.Fprintf(out, "ID: %s\n", sess.ID)
	fmt.Fprintf(out, "Title: %s\n", sess.Title)
	fmt.Fprintf(out, "Created: %s\n", sess.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated: %s\n", sess.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Messages: %d\n", len(sess.Messages))
	fmt.Fprintln(out)

	for i, msg := range sess.Messages {
		role := "You"
		if msg.Role == models.RoleAssistant {
			role = "Gemini"
		}
		fmt.Fprintf(out, "[%d] %s (%s):\n", i+1, role, msg.Timestamp.Local().Format("15:04"))

		content := msg.Content
		if !full {
			content = truncateTitle(content, 500)
		}
		fmt.Fprintf(out, "  %s\n\n", content)
	}
}

func newHistoryDeleteCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			store := env.sessions()
			sess, err := history.NewResolver(store).Resolve(args[0])
			if err != nil {
				return err
			}
			store.DeleteSession(sess.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted conversation: %s\n", sess.Title)
			return nil
		},
	}
}

func newHistoryClearCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.history.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "All conversations deleted.")
			return nil
		},
	}
}

func newHistoryRenameCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <ref> <title>",
		Short: "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			store := env.sessions()
			id, err := history.NewResolver(store).ResolveID(args[0])
			if err != nil {
				return err
			}
			if !store.RenameSession(id, args[1]) {
				return fmt.Errorf("title cannot be empty")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed conversation to: %s\n", strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func newHistoryExportCmd(global *globalOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Export a conversation as markdown, json or yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := history.ParseExportFormat(format)
			if err != nil {
				return err
			}

			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			sess, err := history.NewResolver(env.sessions()).Resolve(args[0])
			if err != nil {
				return err
			}

			data, err := history.Export(sess, exportFormat)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported '%s' to %s\n", sess.Title, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Export format (markdown, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newHistorySearchCmd(global *globalOptions) *cobra.Command {
	var content bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search conversations by title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			out := cmd.OutOrStdout()
			results := history.Search(env.sessions().Sessions(), args[0], content)
			if len(results) == 0 {
				fmt.Fprintf(out, "No conversations matching '%s'.\n", args[0])
				return nil
			}

			for _, r := range results {
				fmt.Fprintf(out, "%s  %s\n", r.Session.ID, r.Session.Title)
				if r.MatchField == "content" {
					fmt.Fprintf(out, "    [%d] %s\n", r.MatchIndex+1, r.MatchSnippet)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&content, "content", "c", false, "Also search message content")
	return cmd
}

func newHistoryStatsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			stats, err := env.history.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storage: %s\n", env.cfg.Storage)
			fmt.Fprintf(out, "Sessions: %d\n", stats.Sessions)
			fmt.Fprintf(out, "Messages: %d\n", stats.Messages)
			fmt.Fprintf(out, "Size: %d bytes\n", stats.Bytes)
			return nil
		},
	}
}

// truncateTitle shortens s to max runes on a single line
func truncateTitle(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
