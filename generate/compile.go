package generate

import (
	"fmt"
)

// renderer turns resolved reference text, keyed by parameter name, into a
// formula. The result may still carry a leading '='.
type renderer func(refs map[string]string) string

func compile(s *Spec) (renderer, error) {
	have := make(map[string]bool, len(s.Params))
	for name := range s.Params {
		have[name] = true
	}
	require := func(names ...string) error {
		for _, n := range names {
			if !have[n] {
				return fmt.Errorf("%w: %s needs parameter %q", ErrMissingParameter, s.Kind, n)
			}
		}
		return nil
	}

	var r renderer
	switch s.Kind {
	case KindSum, KindAverage:
		if err := require(ParamRange); err != nil {
			return nil, err
		}
		fn := "SUM"
		if s.Kind == KindAverage {
			fn = "AVERAGE"
		}
		r = func(refs map[string]string) string {
			return fn + "(" + refs[ParamRange] + ")"
		}

	case KindVLookup:
		if err := require(ParamLookupValue, ParamTableArray); err != nil {
			return nil, err
		}
		col := s.Args.ColIndex
		if col == 0 {
			col = 2
		} else if col < 0 {
			return nil, fmt.Errorf("%w: vlookup column index %d", ErrInvalidSpec, col)
		}
		match := s.Args.RangeLookup
		if match == "" {
			match = "FALSE"
		}
		r = func(refs map[string]string) string {
			return fmt.Sprintf("VLOOKUP(%s, %s, %d, %s)", refs[ParamLookupValue], refs[ParamTableArray], col, match)
		}

	case KindIf:
		if s.Args.LogicalTest == "" {
			return nil, fmt.Errorf("%w: if needs a logical test", ErrInvalidSpec)
		}
		var parts [3]*template
		for i, src := range []string{s.Args.LogicalTest, s.Args.ValueIfTrue, s.Args.ValueIfFalse} {
			t, err := parseTemplate(src)
			if err != nil {
				return nil, err
			}
			if err := t.check(have); err != nil {
				return nil, err
			}
			parts[i] = t
		}
		r = func(refs map[string]string) string {
			return fmt.Sprintf("IF(%s, %s, %s)", parts[0].render(refs), parts[1].render(refs), parts[2].render(refs))
		}

	case KindSumIf:
		if err := require(ParamRange); err != nil {
			return nil, err
		}
		if s.Args.Criteria == "" {
			return nil, fmt.Errorf("%w: sumif needs criteria", ErrInvalidSpec)
		}
		criteria, err := parseTemplate(s.Args.Criteria)
		if err != nil {
			return nil, err
		}
		if err := criteria.check(have); err != nil {
			return nil, err
		}
		withSum := have[ParamSumRange]
		r = func(refs map[string]string) string {
			if withSum {
				return fmt.Sprintf("SUMIF(%s, %s, %s)", refs[ParamRange], criteria.render(refs), refs[ParamSumRange])
			}
			return fmt.Sprintf("SUMIF(%s, %s)", refs[ParamRange], criteria.render(refs))
		}

	case KindCustom:
		if s.Template == "" {
			return nil, fmt.Errorf("%w: custom formula without a template", ErrMalformedTemplate)
		}
		t, err := parseTemplate(s.Template)
		if err != nil {
			return nil, err
		}
		if err := t.check(have); err != nil {
			return nil, err
		}
		for _, name := range s.paramNames() {
			if !t.uses(name) {
				return nil, fmt.Errorf("%w: parameter %q is not used by the template", ErrMissingParameter, name)
			}
		}
		r = t.render

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, s.Kind)
	}

	if s.Target.Sheet == "" {
		return nil, fmt.Errorf("%w: target %s has no sheet", ErrInvalidSpec, s.Target.Address())
	}
	if !s.Target.Range.IsCell() {
		return nil, fmt.Errorf("%w: target %s is not a single cell", ErrInvalidSpec, s.Target)
	}
	if s.Loop != nil {
		if s.Loop.Count < 0 {
			return nil, fmt.Errorf("%w: negative loop count %d", ErrInvalidSpec, s.Loop.Count)
		}
		for name := range s.Loop.ParamOffsets {
			if !have[name] {
				return nil, fmt.Errorf("%w: loop offset for unknown parameter %q", ErrInvalidSpec, name)
			}
		}
	}
	return r, nil
}
