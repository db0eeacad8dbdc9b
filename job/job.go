// Package job reads YAML documents listing formula specs and fill requests
// and runs them against a workbook.
package job

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/fill"
	"github.com/adnsv/go-xlformula/generate"
)

// Document is the YAML layout of a job file.
type Document struct {
	Formulas []FormulaDoc `yaml:"formulas"`
	Fills    []FillDoc    `yaml:"fills"`
}

type FormulaDoc struct {
	Operation    string             `yaml:"operation"` // sum, average, vlookup, if, sumif, custom
	Template     string             `yaml:"template"`
	Params       map[string]Address `yaml:"params"`
	Target       Address            `yaml:"target"`
	Loop         *LoopDoc           `yaml:"loop"`
	ColIndex     int                `yaml:"col_index"`
	RangeLookup  string             `yaml:"range_lookup"`
	LogicalTest  string             `yaml:"logical_test"`
	ValueIfTrue  string             `yaml:"value_if_true"`
	ValueIfFalse string             `yaml:"value_if_false"`
	Criteria     string             `yaml:"criteria"`
}

type LoopDoc struct {
	Count        int                 `yaml:"count"`
	ParamOffsets map[string]ShiftDoc `yaml:"param_offsets"`
	TargetOffset ShiftDoc            `yaml:"target_offset"`
}

// ShiftDoc moves row_shift rows down and col_shift columns right.
type ShiftDoc struct {
	RowShift int `yaml:"row_shift"`
	ColShift int `yaml:"col_shift"`
}

type FillDoc struct {
	Sheet       string `yaml:"sheet"`
	Source      string `yaml:"source"`
	Target      string `yaml:"target"`
	TargetSheet string `yaml:"target_sheet"`
	CopyStyle   bool   `yaml:"copy_style"`
}

// Address is a sheet-qualified cell or range, written either as a string
// ("'b 利润表'!F5") or as a mapping ({sheet: b 利润表, cell: F5}).
type Address coord.SheetRange

func (a *Address) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		sr, err := coord.ParseSheetRange(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*a = Address(sr)
	case yaml.MappingNode:
		var m struct {
			Sheet string `yaml:"sheet"`
			Cell  string `yaml:"cell"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		rng, err := coord.ParseRange(m.Cell)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*a = Address{Sheet: m.Sheet, Range: rng}
	default:
		return fmt.Errorf("line %d: address must be a string or a {sheet, cell} mapping", n.Line)
	}
	return nil
}

func (s ShiftDoc) shift() coord.Shift {
	return coord.Shift{RowDelta: s.RowShift, ColDelta: s.ColShift}
}

// Job is a decoded and validated Document.
type Job struct {
	Formulas []generate.Spec
	Fills    []fill.Request
}

func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes a job document. Unknown keys are rejected and every spec is
// validated; all problems are reported together.
func Parse(data []byte) (*Job, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	job := &Job{}
	var errs []error
	for i, fd := range doc.Formulas {
		spec, err := fd.spec()
		if err != nil {
			errs = append(errs, fmt.Errorf("formulas[%d]: %w", i, err))
			continue
		}
		job.Formulas = append(job.Formulas, spec)
	}
	for i, fd := range doc.Fills {
		req, err := fd.request()
		if err != nil {
			errs = append(errs, fmt.Errorf("fills[%d]: %w", i, err))
			continue
		}
		job.Fills = append(job.Fills, req)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return job, nil
}

func (fd *FormulaDoc) spec() (generate.Spec, error) {
	kind, err := generate.ParseKind(fd.Operation)
	if err != nil {
		return generate.Spec{}, err
	}
	spec := generate.Spec{
		Kind:     kind,
		Template: fd.Template,
		Params:   make(map[string]coord.SheetRange, len(fd.Params)),
		Target:   coord.SheetRange(fd.Target),
		Args: generate.Args{
			ColIndex:     fd.ColIndex,
			RangeLookup:  fd.RangeLookup,
			LogicalTest:  fd.LogicalTest,
			ValueIfTrue:  fd.ValueIfTrue,
			ValueIfFalse: fd.ValueIfFalse,
			Criteria:     fd.Criteria,
		},
	}
	for name, a := range fd.Params {
		spec.Params[name] = coord.SheetRange(a)
	}
	if fd.Loop != nil {
		spec.Loop = &generate.Loop{
			Count:        fd.Loop.Count,
			ParamOffsets: make(map[string]coord.Shift, len(fd.Loop.ParamOffsets)),
			TargetOffset: fd.Loop.TargetOffset.shift(),
		}
		for name, s := range fd.Loop.ParamOffsets {
			spec.Loop.ParamOffsets[name] = s.shift()
		}
	}
	if err := spec.Validate(); err != nil {
		return generate.Spec{}, err
	}
	return spec, nil
}

func (fd *FillDoc) request() (fill.Request, error) {
	if fd.Sheet == "" {
		return fill.Request{}, fmt.Errorf("%w: no sheet", fill.ErrInvalidRequest)
	}
	req, err := fill.NewRequest(fd.Sheet, fd.Source, fd.Target, fd.CopyStyle)
	if err != nil {
		return fill.Request{}, err
	}
	req.TargetSheet = fd.TargetSheet
	return req, nil
}

// Run generates all formulas, then performs the fills in order. A failing
// spec or request does not stop the others.
func (j *Job) Run(g *generate.Generator, f *fill.Filler) error {
	var errs []error
	if err := g.Generate(j.Formulas); err != nil {
		errs = append(errs, err)
	}
	for i, req := range j.Fills {
		if err := f.Autofill(req); err != nil {
			errs = append(errs, fmt.Errorf("fills[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
