// Package commands provides CLI commands for geminichat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/geminichat/internal/chat"
	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/history"
	"github.com/diogo/geminichat/internal/render"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errGenerationFailed is returned by a one-shot send whose reply is an error reply
var errGenerationFailed = errors.New("generation failed")

// globalOptions holds the flags shared by every command
type globalOptions struct {
	model    string
	provider string
}

// sendOptions holds the flags of the one-shot send
type sendOptions struct {
	session string
	file    string
	output  string
	copy    bool
	version bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree on top of deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	global := &globalOptions{}
	send := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "geminichat [prompt]",
		Short: "Chat with Gemini from the terminal",
		Long: `geminichat keeps multiple chat sessions on disk and talks to a
text-generation provider (Gemini, OpenAI-compatible or Anthropic).

Examples:
  geminichat chat                          Start the interactive chat
  geminichat "What is Go?"                 Send a prompt in a new session
  geminichat -s @last "And generics?"      Continue the most recent session
  cat prompt.md | geminichat               Read the prompt from stdin
  geminichat history list                  List saved sessions`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if send.version {
				fmt.Fprintf(cmd.OutOrStdout(), "geminichat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, err := readPrompt(cmd, args, send.file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(prompt) == "" {
				return cmd.Help()
			}
			return runSend(cmd, deps, global, send, prompt)
		},
	}

	cmd.PersistentFlags().StringVarP(&global.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVarP(&global.provider, "provider", "p", "", "Provider to use (gemini, openai, anthropic, mock)")
	cmd.Flags().StringVarP(&send.session, "session", "s", "", "Continue a session (@last, index, title or ID)")
	cmd.Flags().StringVarP(&send.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&send.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVarP(&send.copy, "copy", "c", false, "Copy the response to the clipboard")
	cmd.Flags().BoolVarP(&send.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, global))
	cmd.AddCommand(newHistoryCmd(global))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readPrompt takes the prompt from the argument, a file, or piped stdin
func readPrompt(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func runSend(cmd *cobra.Command, deps *Dependencies, global *globalOptions, opts *sendOptions, prompt string) error {
	env, err := openEnvironment(global)
	if err != nil {
		return err
	}
	defer env.close()

	store, err := env.chatStore(cmd.Context())
	if err != nil {
		return err
	}

	if opts.session != "" {
		sess, err := history.NewResolver(store).Resolve(opts.session)
		if err != nil {
			return err
		}
		store.SelectSession(sess.ID)
	} else {
		store.CreateSession()
	}

	if !store.SendMessage(cmd.Context(), prompt) {
		return apierrors.ErrEmptyPrompt
	}

	reply, ok := chat.LastAssistantMessage(store.CurrentSession())
	if !ok {
		return errGenerationFailed
	}
	if reply.IsErrorReply() {
		fmt.Fprintln(cmd.ErrOrStderr(), reply.Content)
		return errGenerationFailed
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Response saved to %s\n", opts.output)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), formatReply(cmd.OutOrStdout(), reply.Content, env.cfg.Markdown))
	}

	if opts.copy || env.cfg.CopyToClipboard {
		if err := deps.Copy(reply.Content); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to copy to clipboard: %v\n", err)
		}
	}
	return nil
}

// formatReply renders markdown when out is a terminal and leaves it raw otherwise
func formatReply(out io.Writer, content string, md config.MarkdownConfig) string {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return content
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return strings.TrimRight(render.MarkdownOrPlain(content, render.OptionsFromConfig(md, width)), "\n")
}
