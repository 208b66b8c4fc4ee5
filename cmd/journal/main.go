package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/api"
	"github.com/pbaille/journal/internal/config"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/lexicon"
	"github.com/pbaille/journal/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "journal",
		Short:        "Journal with sentiment, themes and reflective prompts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				c.Database.Path = dbPath
			}
			if verbose {
				c.Logging.Level = "debug"
			}

			l, err := config.NewLogger(c.Logging.Level)
			if err != nil {
				return err
			}
			cfg, logger = c, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(reflectCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.Database.Path)
}

// openJournal opens the store and builds a Journal over it. The caller closes the store.
func openJournal() (*journal.Journal, *store.Store, error) {
	var tables *lexicon.Tables
	if cfg.Lexicon.Path != "" {
		t, err := lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			return nil, nil, err
		}
		tables = t
	}

	s, err := getStore()
	if err != nil {
		return nil, nil, err
	}

	opts := []journal.Option{journal.WithLogger(logger)}
	if seed := cfg.Prompt.Seed; seed != 0 {
		opts = append(opts, journal.WithRandSource(rand.NewPCG(seed, seed)))
	}

	return journal.New(s, tables, opts...), s, nil
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, s, err := openJournal()
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on %s\n", addr)
			return api.New(j, addr, logger).Run()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// readContent joins args, or reads stdin when there are none
func readContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
