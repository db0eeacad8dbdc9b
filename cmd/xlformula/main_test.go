package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestRewriteCommand(t *testing.T) {
	got := execute(t, "rewrite", "=SUM('b 利润表'!F5:F10)*Sheet2!$B$3", "--rows", "1", "--cols", "0")
	assert.Equal(t, "=SUM('b 利润表'!F6:F11)*Sheet2!$B$3\n", got)

	got = execute(t, "rewrite", "Old!A1+B2", "--rows", "0", "--cols", "1", "--rename", "Old=利润表")
	assert.Equal(t, "'利润表'!B1+C2\n", got)
}

func TestRefsCommand(t *testing.T) {
	got := execute(t, "refs", "A1+Sheet1!B2:C3+A1")
	assert.Equal(t, "A1\nSheet1!B2:C3\n", got)
}

func TestGenerateCommandNewWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	execute(t, "generate",
		"--op", "custom",
		"--template", "{a}*2",
		"--param", "a=Data!B2",
		"--target", "Data!C2",
		"--count", "3",
		"--row-shift", "1",
		"--target-row-shift", "1",
		"--out", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	for i, want := range []string{"Data!B2*2", "Data!B3*2", "Data!B4*2"} {
		cell, _ := excelize.CoordinatesToCellName(3, 2+i)
		got, err := f.GetCellFormula("Data", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}
