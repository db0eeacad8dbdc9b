package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adnsv/go-xlformula/fill"
	"github.com/adnsv/go-xlformula/formula"
	"github.com/adnsv/go-xlformula/generate"
)

var (
	logLevel string
	quoteAll bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "xlformula",
	Short: "Generate, copy and rewrite spreadsheet formulas",
	Long: `Populate workbook formulas from templates and fill-handle style copies.

Commands:
  generate  Expand one formula spec into a workbook.
  fill      Copy a cell or block, moving relative references.
  run       Execute a YAML job of formula specs and fills.
  rewrite   Shift every reference in a formula and print it.
  refs      List the references a formula uses.

Environment (also read from .env):
  XLFORMULA_LOG_LEVEL  debug, info, warn or error
  XLFORMULA_QUOTE_ALL  quote every sheet qualifier when true

Examples:
  xlformula run job.yaml --in model.xlsx
  xlformula fill --in model.xlsx --sheet Sheet1 --source F5 --target F10:H10
  xlformula rewrite "SUM('b 利润表'!F5:F10)" --rows 1`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("warning: .env: " + err.Error() + "\n")
	}

	defaultLevel := os.Getenv("XLFORMULA_LOG_LEVEL")
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	defaultQuote, _ := strconv.ParseBool(os.Getenv("XLFORMULA_QUOTE_ALL"))

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&quoteAll, "quote-all", defaultQuote, "Quote every sheet qualifier, even when not required")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// rewriter reports unparseable references through the logger.
func rewriter() formula.Rewriter {
	return formula.Rewriter{
		QuoteAll: quoteAll,
		Diagnostics: func(d formula.Diagnostic) {
			logger.Warn("unparseable reference",
				zap.String("token", d.Token),
				zap.Int("offset", d.Offset),
				zap.Error(d.Err))
		},
	}
}

func newGenerator(wb *workbook) *generate.Generator {
	return generate.New(wb.sink, generate.WithLogger(logger), generate.WithQuoteAll(quoteAll))
}

func newFiller(wb *workbook) *fill.Filler {
	return fill.New(wb.src, wb.sink, fill.WithLogger(logger), fill.WithRewriter(rewriter()))
}
