package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/typewriter/internal/chat"
	"github.com/xkilldash9x/typewriter/internal/observability"
	"github.com/xkilldash9x/typewriter/internal/render"
	"github.com/xkilldash9x/typewriter/internal/typing"
)

var errPlaybackCancelled = errors.New("playback cancelled")

type playOptions struct {
	file        string
	personality string
	speed       float64
	noAnimation bool
	output      string
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play [text...]",
		Short: "Types out text with a typing personality",
		Long: `Types out text character by character with human-like pacing, pauses and corrections.
The text comes from the arguments, from --file, or from standard input when it is piped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the text from a file")
	cmd.Flags().StringVarP(&opts.personality, "personality", "p", "", "typing personality (natural, fast, thoughtful, excited, casual)")
	cmd.Flags().Float64VarP(&opts.speed, "speed", "s", 1.0, "speed multiplier between 0.1 and 3.0")
	cmd.Flags().BoolVar(&opts.noAnimation, "no-animation", false, "print the full text at once")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "terminal", "output format: terminal or json")
	return cmd
}

func runPlay(cmd *cobra.Command, args []string, opts *playOptions) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("personality") {
		cfg.SetTypingPersonality(opts.personality)
	}
	if flags.Changed("speed") {
		cfg.SetTypingSpeedMultiplier(opts.speed)
	}
	if opts.noAnimation {
		cfg.SetTypingAnimationsEnabled(false)
	}
	if err := cfg.Typing().Validate(); err != nil {
		return err
	}

	text, err := readText(args, opts.file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("no text to play: pass it as arguments, with --file, or on stdin")
	}

	out := cmd.OutOrStdout()
	var renderer typing.Renderer
	switch strings.ToLower(opts.output) {
	case "terminal":
		renderer = render.NewTerminal(out)
	case "json":
		renderer = render.NewJSONLines(out, nil)
	default:
		return fmt.Errorf("unsupported output %q: use terminal or json", opts.output)
	}

	conv := chat.NewConversation(logger)
	id := conv.AddMessage(chat.RoleAssistant, text, chat.StatusReadyToAnimate)
	session, err := conv.Animate(ctx, id, renderer, chat.SettingsFromConfig(cfg.Typing()))
	if err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	<-session.Done()

	switch session.State() {
	case typing.StateCancelled:
		if render.IsTerminal(out) {
			fmt.Fprintln(out)
		}
		logger.Info("Playback cancelled", zap.Int("shown", len([]rune(session.Displayed()))))
		return errPlaybackCancelled
	case typing.StateCompleted:
		if err := session.Err(); err != nil {
			logger.Warn("Playback degraded to instant display", zap.Error(err))
		}
	}
	return nil
}

// readText picks the first available source: arguments, then file, then piped stdin.
func readText(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	if f, ok := stdin.(*os.File); ok && render.IsTerminal(f) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
