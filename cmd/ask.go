package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docquery/docquery/internal/app"
	"github.com/docquery/docquery/internal/config"
	"github.com/docquery/docquery/internal/log"
	"github.com/docquery/docquery/internal/rag"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the grounded answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of passages to retrieve (0 = configured default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(ctx context.Context, question string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	logger := log.New(log.Config{Level: slog.LevelWarn})

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	result, err := a.Engine.Answer(ctx, rag.Request{Question: question, TopK: askTopK})
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.References) > 0 {
		fmt.Println()
		fmt.Println("References:")
		for i, ref := range result.References {
			fmt.Printf("  [#%d] %s (%.2f)\n", i+1, ref.Source, ref.Score)
		}
	}
	return nil
}
