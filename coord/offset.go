package coord

// Offset moves an address (cell or range, optionally sheet-qualified) by the
// given deltas and clamps the result to row/column >= 1. Absolute markers
// are kept but do not pin the axis: this computes anchor cells, it does not
// emulate a copy.
func Offset(address string, rowDelta, colDelta int) (string, error) {
	sr, err := ParseSheetRange(address)
	if err != nil {
		return "", err
	}
	sr.Range = sr.Range.Move(rowDelta, colDelta)
	return sr.String(), nil
}

func Right(address string, n int) (string, error) { return Offset(address, 0, n) }
func Left(address string, n int) (string, error)  { return Offset(address, 0, -n) }
func Down(address string, n int) (string, error)  { return Offset(address, n, 0) }
func Up(address string, n int) (string, error)    { return Offset(address, -n, 0) }

// ToAbsolute rewrites "A1", "Sheet!B2" or "'x y'!C3:D4" with every axis
// absolute, e.g. "'x y'!$C$3:$D$4".
func ToAbsolute(address string) (string, error) {
	sr, err := ParseSheetRange(address)
	if err != nil {
		return "", err
	}
	sr.Range = sr.Range.Absolute()
	return sr.String(), nil
}
