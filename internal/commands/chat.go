package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/history"
	"github.com/diogo/geminichat/internal/render"
	"github.com/diogo/geminichat/internal/tui"
)

func newChatCmd(deps *Dependencies, global *globalOptions) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start the interactive chat.

Sessions are listed in the sidebar (Tab to focus it). Ctrl+N starts a new
chat, Ctrl+E edits your last message, Ctrl+R regenerates the last reply.
Type /exit or press Esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(global)
			if err != nil {
				return err
			}
			defer env.close()

			store, err := env.chatStore(cmd.Context())
			if err != nil {
				return err
			}

			if session != "" {
				id, err := history.NewResolver(store).ResolveID(session)
				if err != nil {
					return err
				}
				store.SelectSession(id)
			}

			return deps.TUI.RunChat(store, tui.Options{
				ModelName: env.cfg.DefaultModel,
				Theme:     env.cfg.TUITheme,
				Markdown:  render.OptionsFromConfig(env.cfg.Markdown, render.DefaultOptions().Width),
				Copy:      deps.Copy,
			})
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Open a session (@last, index, title or ID)")
	return cmd
}
