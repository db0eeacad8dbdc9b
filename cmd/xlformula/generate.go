package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/generate"
)

var genFlags struct {
	op           string
	template     string
	params       []string
	target       string
	count        int
	rowShift     int
	colShift     int
	targetRows   int
	targetCols   int
	colIndex     int
	rangeLookup  string
	logicalTest  string
	valueIfTrue  string
	valueIfFalse string
	criteria     string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write one formula spec into a workbook",
	Long: `Write one formula, or a row/column of formulas with --count, into a workbook.

Parameters are given as name=reference:
  xlformula generate --in model.xlsx --op sum --param range=Data!B2:B10 --target Summary!B2
  xlformula generate --in model.xlsx --op custom --template "{a}*{b}" \
      --param a=Data!B2 --param b=Data!C2 --target Data!D2 --count 9 --row-shift 1 --target-row-shift 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := specFromFlags()
		if err != nil {
			return err
		}
		return withWorkbook(func(wb *workbook) error {
			return newGenerator(wb).Generate([]generate.Spec{spec})
		})
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.op, "op", "custom", "Formula shape: sum, average, vlookup, if, sumif, custom")
	f.StringVar(&genFlags.template, "template", "", "Template for --op custom, e.g. \"{a}+{b}\"")
	f.StringArrayVarP(&genFlags.params, "param", "p", nil, "Parameter as name=reference (repeatable)")
	f.StringVarP(&genFlags.target, "target", "t", "", "Target cell, e.g. Sheet1!C3")
	f.IntVar(&genFlags.count, "count", 0, "Repeat the formula this many times")
	f.IntVar(&genFlags.rowShift, "row-shift", 0, "Per-iteration row shift applied to every parameter")
	f.IntVar(&genFlags.colShift, "col-shift", 0, "Per-iteration column shift applied to every parameter")
	f.IntVar(&genFlags.targetRows, "target-row-shift", 0, "Per-iteration row shift of the target")
	f.IntVar(&genFlags.targetCols, "target-col-shift", 0, "Per-iteration column shift of the target")
	f.IntVar(&genFlags.colIndex, "col-index", 0, "VLOOKUP column index (default 2)")
	f.StringVar(&genFlags.rangeLookup, "range-lookup", "", "VLOOKUP match mode (default FALSE)")
	f.StringVar(&genFlags.logicalTest, "test", "", "IF logical test template")
	f.StringVar(&genFlags.valueIfTrue, "if-true", "", "IF value-if-true template")
	f.StringVar(&genFlags.valueIfFalse, "if-false", "", "IF value-if-false template")
	f.StringVar(&genFlags.criteria, "criteria", "", "SUMIF criteria template")
	_ = generateCmd.MarkFlagRequired("target")
	addWorkbookFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func specFromFlags() (generate.Spec, error) {
	kind, err := generate.ParseKind(genFlags.op)
	if err != nil {
		return generate.Spec{}, err
	}
	target, err := coord.ParseSheetRange(genFlags.target)
	if err != nil {
		return generate.Spec{}, fmt.Errorf("target: %w", err)
	}
	params := map[string]coord.SheetRange{}
	for _, p := range genFlags.params {
		name, ref, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return generate.Spec{}, fmt.Errorf("param %q: want name=reference", p)
		}
		sr, err := coord.ParseSheetRange(ref)
		if err != nil {
			return generate.Spec{}, fmt.Errorf("param %s: %w", name, err)
		}
		params[name] = sr
	}

	spec := generate.Spec{
		Kind:     kind,
		Template: genFlags.template,
		Params:   params,
		Target:   target,
		Args: generate.Args{
			ColIndex:     genFlags.colIndex,
			RangeLookup:  genFlags.rangeLookup,
			LogicalTest:  genFlags.logicalTest,
			ValueIfTrue:  genFlags.valueIfTrue,
			ValueIfFalse: genFlags.valueIfFalse,
			Criteria:     genFlags.criteria,
		},
	}
	if genFlags.count > 0 {
		shift := coord.Shift{RowDelta: genFlags.rowShift, ColDelta: genFlags.colShift}
		offsets := map[string]coord.Shift{}
		if !shift.IsZero() {
			for name := range params {
				offsets[name] = shift
			}
		}
		spec.Loop = &generate.Loop{
			Count:        genFlags.count,
			ParamOffsets: offsets,
			TargetOffset: coord.Shift{RowDelta: genFlags.targetRows, ColDelta: genFlags.targetCols},
		}
	}
	return spec, nil
}
