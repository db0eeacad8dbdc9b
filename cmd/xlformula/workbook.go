package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adnsv/go-xlformula/xl"
	"github.com/adnsv/go-xlformula/xlsxbook"
)

var (
	inPath  string
	outPath string
	outDir  bool
)

func addWorkbookFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inPath, "in", "", "Workbook to update (.xlsx); a new workbook is created when empty")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (defaults to --in)")
	cmd.Flags().BoolVar(&outDir, "dir", false, "Write a new workbook as an unpacked directory instead of .xlsx")
}

type workbook struct {
	src  xl.Source
	sink xl.Sink
	save func() error
	done func() error
}

func openWorkbook() (*workbook, error) {
	out := outPath
	if out == "" {
		out = inPath
	}
	if out == "" {
		return nil, errors.New("no output: set --in or --out")
	}

	if inPath != "" {
		b, err := xlsxbook.Open(inPath)
		if err != nil {
			return nil, err
		}
		return &workbook{
			src:  b,
			sink: b,
			save: func() error { return b.SaveAs(out) },
			done: b.Close,
		}, nil
	}

	wb := xl.NewWorkbook()
	wb.AppName = "xlformula"
	return &workbook{
		src:  wb,
		sink: wb,
		save: func() error {
			if outDir {
				return xl.NewWriter(xl.NewDirStorage(out)).Write(wb)
			}
			return xl.SaveFile(wb, out)
		},
		done: func() error { return nil },
	}, nil
}

// withWorkbook opens the workbook, runs fn and saves the result even when fn
// reports errors, since those never undo formulas already written.
func withWorkbook(fn func(wb *workbook) error) error {
	wb, err := openWorkbook()
	if err != nil {
		return err
	}
	defer wb.done()

	runErr := fn(wb)
	if err := wb.save(); err != nil {
		return errors.Join(runErr, fmt.Errorf("save: %w", err))
	}
	logger.Info("workbook saved", zap.String("path", firstNonEmpty(outPath, inPath)))
	return runErr
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
