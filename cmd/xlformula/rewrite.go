package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/formula"
)

var rewriteFlags struct {
	rows    int
	cols    int
	renames []string
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <formula>",
	Short: "Shift every reference in a formula and print the result",
	Example: `  xlformula rewrite "SUM('b 利润表'!F5:F10)*Sheet2!$B$3" --rows 1
  xlformula rewrite "Old!A1+B2" --rename Old=New`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, eq := strings.CutPrefix(args[0], "=")
		rw := rewriter()
		out := rw.Rewrite(body, coord.Shift{RowDelta: rewriteFlags.rows, ColDelta: rewriteFlags.cols})
		if len(rewriteFlags.renames) > 0 {
			renames := map[string]string{}
			for _, r := range rewriteFlags.renames {
				from, to, ok := strings.Cut(r, "=")
				if !ok || from == "" || to == "" {
					return fmt.Errorf("rename %q: want old=new", r)
				}
				renames[from] = to
			}
			out = rw.RenameSheets(out, renames)
		}
		if eq {
			out = "=" + out
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs <formula>",
	Short: "List the distinct references in a formula",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.TrimPrefix(args[0], "=")
		for _, sr := range formula.References(body) {
			fmt.Fprintln(cmd.OutOrStdout(), sr.String())
		}
		return nil
	},
}

func init() {
	rewriteCmd.Flags().IntVar(&rewriteFlags.rows, "rows", 0, "Row shift")
	rewriteCmd.Flags().IntVar(&rewriteFlags.cols, "cols", 0, "Column shift")
	rewriteCmd.Flags().StringArrayVar(&rewriteFlags.renames, "rename", nil, "Rename a sheet qualifier as old=new (repeatable)")
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(refsCmd)
}
