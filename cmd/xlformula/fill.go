package main

import (
	"github.com/spf13/cobra"

	"github.com/adnsv/go-xlformula/fill"
)

var fillFlags struct {
	sheet       string
	targetSheet string
	source      string
	target      string
	copyStyle   bool
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Copy a cell or block the way the fill handle does",
	Long: `Copy a source cell or block into a target range. Relative references in
copied formulas move with the copy; absolute ones stay put.

  xlformula fill --in model.xlsx --sheet Sheet1 --source F5 --target F10:H10
  xlformula fill --in model.xlsx --sheet Sheet1 --source A1:B2 --target A5:D8 --style`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := fill.NewRequest(fillFlags.sheet, fillFlags.source, fillFlags.target, fillFlags.copyStyle)
		if err != nil {
			return err
		}
		req.TargetSheet = fillFlags.targetSheet
		return withWorkbook(func(wb *workbook) error {
			return newFiller(wb).Autofill(req)
		})
	},
}

func init() {
	f := fillCmd.Flags()
	f.StringVar(&fillFlags.sheet, "sheet", "", "Source sheet")
	f.StringVar(&fillFlags.targetSheet, "target-sheet", "", "Target sheet (defaults to --sheet)")
	f.StringVar(&fillFlags.source, "source", "", "Source cell or range, e.g. F5 or A1:B2")
	f.StringVar(&fillFlags.target, "target", "", "Target cell or range")
	f.BoolVar(&fillFlags.copyStyle, "style", false, "Copy cell styles along with content")
	_ = fillCmd.MarkFlagRequired("sheet")
	_ = fillCmd.MarkFlagRequired("source")
	_ = fillCmd.MarkFlagRequired("target")
	addWorkbookFlags(fillCmd)
	rootCmd.AddCommand(fillCmd)
}
