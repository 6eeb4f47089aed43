package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"agentschool/internal/config"
	"agentschool/internal/content"
	"agentschool/internal/history"
	"agentschool/internal/session"
	"agentschool/internal/telemetry"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentschool",
		Short:         "Interactive terminal course on building AI agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLearn,
	}
	f := root.PersistentFlags()
	f.String("courses-dir", "", "Course content directory (default \"courses\")")
	f.String("data-dir", "", "Directory for the activity journal (default ~/.local/share/agentschool)")
	f.String("log-file", "", "Write structured logs to this file")
	root.Flags().String("runner", "", "Command used to run challenge and example scripts (overrides the course setting)")
	root.Flags().Duration("timeout", 0, "Challenge and example execution timeout (default 2m)")
	root.Flags().Bool("no-images", false, "Skip image rendering in lessons")

	root.AddCommand(statsCmd())
	return root
}

func runLearn(cmd *cobra.Command, _ []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("agentschool is interactive and needs a terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("runner"); v != "" {
		cfg.RunnerOverride = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.ChallengeTimeout = v
	}
	if v, _ := cmd.Flags().GetBool("no-images"); v {
		cfg.NoImages = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := telemetry.NewLogger(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	courses, err := content.NewLoader().LoadCourses(cfg.CoursesDir)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		return fmt.Errorf("no courses found under %s", cfg.CoursesDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		logger.Warn("open history store", "path", cfg.HistoryPath(), "err", err)
		hist = nil
	}
	if hist != nil {
		defer hist.Close()
	}

	return session.New(cfg, courses, hist, logger).Run(ctx)
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show all-time activity totals",
		RunE:  runStats,
	}
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hist.Close()

	sum, err := hist.GetSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sessions:    %d\n", sum.Sessions)
	fmt.Printf("Lessons:     %d\n", sum.Lessons)
	fmt.Printf("Quizzes:     %d\n", sum.Quizzes)
	fmt.Printf("Challenges:  %d\n", sum.Challenges)
	fmt.Printf("Examples:    %d\n", sum.Examples)
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("courses-dir"); v != "" {
		cfg.CoursesDir = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.LogFile = v
	}
	return cfg, nil
}

func openHistory(ctx context.Context, cfg config.Config) (*history.SQLiteStore, error) {
	store, err := history.NewSQLite(cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
