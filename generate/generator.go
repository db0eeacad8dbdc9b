package generate

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/xl"
)

// Generator renders specs and writes the formulas through a sink.
type Generator struct {
	sink     xl.Sink
	log      *zap.Logger
	quoteAll bool
}

type Option func(*Generator)

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithQuoteAll quotes every sheet qualifier, needed or not.
func WithQuoteAll(on bool) Option {
	return func(g *Generator) { g.quoteAll = on }
}

func New(sink xl.Sink, opts ...Option) *Generator {
	g := &Generator{sink: sink, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates every target sheet, then emits the specs in order. A
// failing spec is skipped and reported in the joined error; formulas from
// the other specs are still written.
func (g *Generator) Generate(specs []Spec) error {
	var errs []error
	renderers := make([]renderer, len(specs))
	for i := range specs {
		r, err := compile(&specs[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("formula spec %d: %w", i, err))
			continue
		}
		if err := g.sink.EnsureSheet(specs[i].Target.Sheet); err != nil {
			errs = append(errs, fmt.Errorf("formula spec %d: %w", i, err))
			continue
		}
		renderers[i] = r
	}
	for i, r := range renderers {
		if r == nil {
			continue
		}
		if err := g.emit(&specs[i], r); err != nil {
			errs = append(errs, fmt.Errorf("formula spec %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (g *Generator) emit(s *Spec, r renderer) error {
	count := 1
	var loop Loop
	if s.Loop != nil {
		count = s.Loop.Count
		loop = *s.Loop
	}
	names := s.paramNames()
	refs := make(map[string]string, len(names))
	for i := 0; i < count; i++ {
		for _, name := range names {
			refs[name] = g.reference(s.Params[name].Shift(loop.ParamOffsets[name].Times(i)))
		}
		d := loop.TargetOffset.Times(i)
		cell := s.Target.Range.Start.Move(d.RowDelta, d.ColDelta).Relative().String()
		body := strings.TrimPrefix(r(refs), "=")
		if err := g.sink.SetCellFormula(s.Target.Sheet, cell, body); err != nil {
			return fmt.Errorf("write %s!%s: %w", coord.QuoteSheetName(s.Target.Sheet), cell, err)
		}
		g.log.Debug("formula written",
			zap.String("sheet", s.Target.Sheet),
			zap.String("cell", cell),
			zap.String("formula", body))
	}
	return nil
}

// reference renders a parameter as formula text. A parameter without a
// sheet refers to the target's own sheet and stays unqualified.
func (g *Generator) reference(sr coord.SheetRange) string {
	if g.quoteAll && sr.Sheet != "" {
		return coord.ForceQuote(sr.Sheet) + "!" + sr.Address()
	}
	return sr.String()
}
