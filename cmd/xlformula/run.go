package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adnsv/go-xlformula/job"
)

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Execute a YAML job of formula specs and fills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := job.Load(args[0])
		if err != nil {
			return err
		}
		logger.Info("job loaded",
			zap.String("path", args[0]),
			zap.Int("formulas", len(j.Formulas)),
			zap.Int("fills", len(j.Fills)))
		return withWorkbook(func(wb *workbook) error {
			return j.Run(newGenerator(wb), newFiller(wb))
		})
	},
}

func init() {
	addWorkbookFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
