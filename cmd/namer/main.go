package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"NameMyChild/internal/client/api"
	"NameMyChild/internal/client/app"
	"NameMyChild/internal/client/session"
	"NameMyChild/internal/logging"
	"NameMyChild/internal/names"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string
	logFile   string
	logLevel  string
	token     string
	timeout   time.Duration
	prefs     names.Preferences

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "namer",
	Short: "Name My Child - AI baby name suggestions in your terminal",
	Long: `namer talks to a Name My Child API server.

Sign in with a magic link or a password, describe the name you are looking
for and save the suggestions you like.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewFile(logFile, logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := names.GetGender(prefs.Gender); !ok {
			return fmt.Errorf("unknown gender %q: use boy, girl or unisex", prefs.Gender)
		}
		return runApp(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API server base URL")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "namer.log", "Log file (the terminal is used by the UI)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Start with an existing access token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")

	rootCmd.Flags().StringVar(&prefs.Gender, "gender", "", "Prefill gender: boy, girl or unisex")
	rootCmd.Flags().StringVar(&prefs.Origin, "origin", "", "Prefill origin")
	rootCmd.Flags().StringVar(&prefs.Meaning, "meaning", "", "Prefill meaning")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runApp(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := api.New(serverURL, timeout)
	provider := session.NewProvider(client, logger)
	defer provider.Close()
	if token != "" {
		provider.Adopt(token)
	}

	// The subscription belongs to this function. Callbacks stop before the
	// provider is closed.
	events := make(chan *session.Session)
	done := make(chan struct{})
	sub := provider.OnSessionChange(func(s *session.Session) {
		select {
		case events <- s:
		case <-done:
		}
	})
	defer sub.Unsubscribe()
	defer close(done)

	model := app.New(ctx, app.Options{
		Sessions: provider,
		Backend:  client,
		Events:   events,
		Logger:   logger,
		Prefs:    prefs,
	})

	logger.Info("runApp(): starting", zap.String("server", serverURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
