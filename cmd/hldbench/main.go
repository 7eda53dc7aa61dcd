package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ruhal-Doshi/hld-bench/internal/config"
	"github.com/Ruhal-Doshi/hld-bench/internal/design"
	"github.com/Ruhal-Doshi/hld-bench/internal/grade"
	"github.com/Ruhal-Doshi/hld-bench/internal/llm"
	"github.com/Ruhal-Doshi/hld-bench/internal/mermaid"
	"github.com/Ruhal-Doshi/hld-bench/internal/problem"
	"github.com/Ruhal-Doshi/hld-bench/internal/render"
	"github.com/Ruhal-Doshi/hld-bench/internal/store"
)

// timeRound keeps elapsed times readable in the run summary.
const timeRound = 10 * time.Millisecond

// errFailOn signals that the worst outcome crossed the --fail-on threshold.
// The process exits 2 so CI can distinguish threshold failures from errors.
var errFailOn = errors.New("outcome threshold exceeded")

func main() {
	root := &cobra.Command{
		Use:           "hldbench",
		Short:         "Benchmark language models on high-level system design",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSanitizeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errFailOn) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate design records for every problem in the problems file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; keys may already be in the environment.
			_ = godotenv.Load()

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			applyFlagOverrides(cmd, &cfg)

			logger := zap.NewNop()
			if verbose {
				var err error
				if logger, err = zap.NewDevelopment(); err != nil {
					return fmt.Errorf("create logger: %w", err)
				}
				defer logger.Sync() //nolint:errcheck
			}

			return runGenerate(cmd, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML run configuration")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().String("problems", "", "path to the problems file")
	cmd.Flags().String("provider", "", "LLM provider (anthropic, openai, google)")
	cmd.Flags().String("model", "", "model name")
	cmd.Flags().String("profile", "", "design profile (general, microservices, event-driven, cost-aware)")
	cmd.Flags().String("db", "", "path to the record store")
	cmd.Flags().Int("attempts", 0, "recovery attempt budget")
	cmd.Flags().Int("max-tokens", 0, "maximum output tokens per completion")
	cmd.Flags().Float64("temperature", -1, "sampling temperature")
	cmd.Flags().String("fail-on", "", "exit 2 if any outcome reaches this level (REPAIRED, RECOVERED, DEGRADED)")
	return cmd
}

// applyFlagOverrides copies explicitly-set flags over the file/default config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("problems") {
		cfg.ProblemsFile, _ = f.GetString("problems")
	}
	if f.Changed("provider") {
		cfg.Provider, _ = f.GetString("provider")
	}
	if f.Changed("model") {
		cfg.Model, _ = f.GetString("model")
	}
	if f.Changed("profile") {
		cfg.Profile, _ = f.GetString("profile")
	}
	if f.Changed("db") {
		cfg.DBPath, _ = f.GetString("db")
	}
	if f.Changed("attempts") {
		cfg.MaxAttempts, _ = f.GetInt("attempts")
	}
	if f.Changed("max-tokens") {
		cfg.MaxTokens, _ = f.GetInt("max-tokens")
	}
	if f.Changed("temperature") {
		cfg.Temperature, _ = f.GetFloat64("temperature")
	}
	if f.Changed("fail-on") {
		cfg.FailOn, _ = f.GetString("fail-on")
	}
}

func runGenerate(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	problems, err := problem.ParseFile(cfg.ProblemsFile)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		return fmt.Errorf("no problems found in %s", cfg.ProblemsFile)
	}

	provider, err := llm.NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := design.Options{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Profile:     cfg.Profile,
		MaxAttempts: cfg.MaxAttempts,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	worst := grade.OutcomeClean
	failed := 0
	for _, prob := range problems {
		bundle, err := design.Generate(cmd.Context(), provider, prob, opts, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", prob.ID, err)
			failed++
			continue
		}
		if err := st.Save(bundle, render.Markdown(bundle)); err != nil {
			return err
		}
		if grade.Ordinal(bundle.Outcome) > grade.Ordinal(worst) {
			worst = bundle.Outcome
		}
		fmt.Printf("%s  %s  %-9s  score=%3d  attempts=%d  %s\n",
			bundle.ID, prob.ID, bundle.Outcome, bundle.Score, bundle.Attempts,
			bundle.Elapsed.Round(timeRound))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(problems))
	}
	if cfg.FailOn != "" {
		threshold := grade.Ordinal(grade.Outcome(cfg.FailOn))
		if threshold < 0 {
			return fmt.Errorf("unknown --fail-on outcome %q", cfg.FailOn)
		}
		if grade.Ordinal(worst) >= threshold {
			return fmt.Errorf("worst outcome %s: %w", worst, errFailOn)
		}
	}
	return nil
}

func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Run the mermaid repair pipeline on a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src []byte
			var err error
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read diagram source: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), mermaid.Sanitize(string(src)))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored design records",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List()
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s/%s  %-9s  score=%3d  %s\n",
					s.ID, s.ProblemID, s.Provider, s.Model, s.Outcome, s.Score,
					s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.Default().DBPath, "path to the record store")
	return cmd
}

func newShowCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the rendered markdown for a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			_, markdown, err := st.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.Default().DBPath, "path to the record store")
	return cmd
}
