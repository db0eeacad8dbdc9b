// Package generate expands formula specs (a built-in shape or a template,
// a parameter table and an optional loop) into formulas written through an
// xl.Sink.
package generate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/adnsv/go-xlformula/coord"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrMissingParameter     = errors.New("missing parameter")
	ErrMalformedTemplate    = errors.New("malformed template")
	ErrInvalidSpec          = errors.New("invalid formula spec")
)

// Kind selects the formula shape a Spec renders.
type Kind int

const (
	KindSum Kind = iota + 1
	KindAverage
	KindVLookup
	KindIf
	KindSumIf
	KindCustom
)

var kindNames = map[Kind]string{
	KindSum:     "sum",
	KindAverage: "average",
	KindVLookup: "vlookup",
	KindIf:      "if",
	KindSumIf:   "sumif",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "sum", "SUM" or "excel_sum" style names.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "excel_")
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperation, s)
}

// Parameter names of the built-in shapes.
const (
	ParamRange       = "range"
	ParamLookupValue = "lookup_value"
	ParamTableArray  = "table_array"
	ParamSumRange    = "sum_range"
)

// Loop repeats a spec Count times. Iteration i shifts parameter p by
// ParamOffsets[p].Times(i) and the target by TargetOffset.Times(i).
type Loop struct {
	Count        int
	ParamOffsets map[string]coord.Shift
	TargetOffset coord.Shift
}

// Args holds the non-reference arguments of the built-in shapes.
type Args struct {
	ColIndex    int    // VLOOKUP, 0 means 2
	RangeLookup string // VLOOKUP, empty means FALSE

	// IF arguments and SUMIF criteria are templates over the parameters.
	LogicalTest  string
	ValueIfTrue  string
	ValueIfFalse string
	Criteria     string
}

// Spec describes one formula, or a row/column of formulas when Loop is set.
// Build specs with the New* constructors, which validate them.
type Spec struct {
	Kind     Kind
	Template string // KindCustom only
	Params   map[string]coord.SheetRange
	Target   coord.SheetRange
	Loop     *Loop
	Args     Args
}

func NewSum(rng, target coord.SheetRange, loop *Loop) (Spec, error) {
	return newSpec(Spec{Kind: KindSum, Params: map[string]coord.SheetRange{ParamRange: rng}, Target: target, Loop: loop})
}

func NewAverage(rng, target coord.SheetRange, loop *Loop) (Spec, error) {
	return newSpec(Spec{Kind: KindAverage, Params: map[string]coord.SheetRange{ParamRange: rng}, Target: target, Loop: loop})
}

// NewVLookup builds VLOOKUP(lookupValue, tableArray, colIndex, rangeLookup).
// colIndex 0 defaults to 2 and an empty rangeLookup to FALSE.
func NewVLookup(lookupValue, tableArray, target coord.SheetRange, colIndex int, rangeLookup string, loop *Loop) (Spec, error) {
	return newSpec(Spec{
		Kind: KindVLookup,
		Params: map[string]coord.SheetRange{
			ParamLookupValue: lookupValue,
			ParamTableArray:  tableArray,
		},
		Target: target,
		Loop:   loop,
		Args:   Args{ColIndex: colIndex, RangeLookup: rangeLookup},
	})
}

// NewIf builds IF(test, ifTrue, ifFalse); each argument is a template over
// params.
func NewIf(params map[string]coord.SheetRange, test, ifTrue, ifFalse string, target coord.SheetRange, loop *Loop) (Spec, error) {
	return newSpec(Spec{
		Kind:   KindIf,
		Params: params,
		Target: target,
		Loop:   loop,
		Args:   Args{LogicalTest: test, ValueIfTrue: ifTrue, ValueIfFalse: ifFalse},
	})
}

// NewSumIf builds SUMIF(rng, criteria[, sumRange]). A nil sumRange omits the
// third argument.
func NewSumIf(rng coord.SheetRange, criteria string, sumRange *coord.SheetRange, target coord.SheetRange, loop *Loop) (Spec, error) {
	params := map[string]coord.SheetRange{ParamRange: rng}
	if sumRange != nil {
		params[ParamSumRange] = *sumRange
	}
	return newSpec(Spec{
		Kind:   KindSumIf,
		Params: params,
		Target: target,
		Loop:   loop,
		Args:   Args{Criteria: criteria},
	})
}

func NewCustom(template string, params map[string]coord.SheetRange, target coord.SheetRange, loop *Loop) (Spec, error) {
	return newSpec(Spec{Kind: KindCustom, Template: template, Params: params, Target: target, Loop: loop})
}

// NewChainSum builds "=(B_val+C_val+...)" over refs, every parameter moving
// by paramOffset per iteration.
func NewChainSum(refs []coord.SheetRange, target coord.SheetRange, count int, paramOffset, targetOffset coord.Shift) (Spec, error) {
	if len(refs) == 0 {
		return Spec{}, fmt.Errorf("%w: chain sum needs at least one reference", ErrInvalidSpec)
	}
	params := make(map[string]coord.SheetRange, len(refs))
	offsets := make(map[string]coord.Shift, len(refs))
	placeholders := make([]string, len(refs))
	for i, ref := range refs {
		name := coord.ColumnLetters(i+2) + "_val"
		params[name] = ref
		offsets[name] = paramOffset
		placeholders[i] = "{" + name + "}"
	}
	loop := &Loop{Count: count, ParamOffsets: offsets, TargetOffset: targetOffset}
	return NewCustom("=("+strings.Join(placeholders, "+")+")", params, target, loop)
}

func newSpec(s Spec) (Spec, error) {
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// Validate checks the spec without rendering it.
func (s *Spec) Validate() error {
	_, err := compile(s)
	return err
}

func (s *Spec) paramNames() []string {
	names := maps.Keys(s.Params)
	slices.Sort(names)
	return names
}
