package table

import (
	"github.com/paveg/tisch/internal/common"
	"github.com/paveg/tisch/internal/dtype"
	"github.com/paveg/tisch/internal/errors"
	"github.com/paveg/tisch/internal/series"
	"github.com/paveg/tisch/internal/validation"
)

const opGet = "Get"

// Get selects from the table with an untyped index: a column name, a list
// of names, a one-column boolean Table, or a Tuple of rows and columns.
// The result is always a new table.
func (t *Table) Get(index any) (*Table, error) {
	idx, err := ParseIndex(index)
	if err != nil {
		return nil, err
	}
	return t.Select(idx)
}

// Loc selects rows and columns together; it is Get(Tuple{rows, cols}).
func (t *Table) Loc(rows, cols any) (*Table, error) {
	return t.Get(Tuple{rows, cols})
}

// Select resolves a typed index expression into a new table.
func (t *Table) Select(idx Index) (*Table, error) {
	switch v := idx.(type) {
	case Label:
		t.logger.Debug("select label", "column", string(v))
		return t.selectLabels([]string{string(v)})
	case Labels:
		t.logger.Debug("select labels", "columns", []string(v))
		return t.selectLabels(v)
	case Mask:
		t.logger.Debug("select mask")
		return t.selectMask(v.Table)
	case RowCol:
		t.logger.Debug("select rows and columns")
		return t.selectRowCol(v)
	default:
		return nil, errors.NewTypeErrorf(opGet, "unsupported index %T", idx)
	}
}

// Head returns the first n rows, n defaulting to the configured preview size.
func (t *Table) Head(n ...int) (*Table, error) {
	rows := t.previewRows(n)
	return t.Select(RowCol{Rows: Slice{Stop: rows}, Cols: All()})
}

// Tail returns rows [-n:], n defaulting to the configured preview size.
// As with any slice starting at -0, Tail(0) returns every row.
func (t *Table) Tail(n ...int) (*Table, error) {
	rows := t.previewRows(n)
	return t.Select(RowCol{Rows: Slice{Start: -rows}, Cols: All()})
}

func (t *Table) previewRows(n []int) int {
	if len(n) > 0 {
		return n[0]
	}
	return t.cfg.DefaultPreviewRows
}

// selectLabels shares the named columns, in order, with a new table.
// Duplicate labels fail re-validation.
func (t *Table) selectLabels(labels []string) (*Table, error) {
	if err := validation.ValidateColumns(t, opGet, labels...); err != nil {
		return nil, err
	}
	if err := validation.ValidateNames(opGet, labels); err != nil {
		return nil, err
	}

	cols := make([]series.ISeries, len(labels))
	for i, name := range labels {
		col := t.store.columns[name]
		cols[i] = col.Rename(name)
	}
	return t.derive(opGet, cols)
}

func (t *Table) selectMask(mask *Table) (*Table, error) {
	flags, err := maskFlags(mask, errors.KindValue)
	if err != nil {
		return nil, err
	}
	positions, err := flagPositions(flags, t.Len())
	if err != nil {
		return nil, err
	}
	return t.take(t.store.order, positions)
}

// selectRowCol resolves columns against the current order before any row
// selection is applied.
func (t *Table) selectRowCol(rc RowCol) (*Table, error) {
	labels, err := t.resolveCols(rc.Cols)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateColumns(t, opGet, labels...); err != nil {
		return nil, err
	}
	if err := validation.ValidateNames(opGet, labels); err != nil {
		return nil, err
	}

	positions, err := t.resolveRows(rc.Rows)
	if err != nil {
		return nil, err
	}
	return t.take(labels, positions)
}

func (t *Table) take(labels []string, positions []int) (*Table, error) {
	cols := make([]series.ISeries, len(labels))
	for i, name := range labels {
		cols[i] = t.store.columns[name].Take(positions, t.mem)
	}
	return t.derive(opGet, cols)
}

// maskFlags extracts the boolean column of a mask table. A mask must have
// exactly one column; a non-boolean column fails with dtypeKind.
func maskFlags(mask *Table, dtypeKind errors.Kind) ([]bool, error) {
	if mask == nil {
		return nil, errors.NewTypeError(opGet, "mask table is nil")
	}
	if mask.Width() != 1 {
		return nil, errors.NewValueErrorf(opGet, "index must be a one-column Table, got %d columns", mask.Width())
	}

	col := mask.store.at(0)
	b, ok := col.(*series.Series[bool])
	if !ok || col.DType() != dtype.Boolean {
		return nil, &errors.TableError{
			Kind:    dtypeKind,
			Op:      opGet,
			Column:  col.Name(),
			Message: "item must be a one-column boolean Table",
		}
	}
	return b.Values(), nil
}

func flagPositions(flags []bool, n int) ([]int, error) {
	if len(flags) != n {
		return nil, errors.NewValueErrorf(opGet, "boolean index has length %d, table has %d rows", len(flags), n)
	}
	positions := make([]int, 0, n)
	for i, keep := range flags {
		if keep {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

func (t *Table) resolveRows(sel RowSelector) ([]int, error) {
	n := t.Len()

	switch v := sel.(type) {
	case RowPosition:
		p, err := normalizePosition(int(v), n)
		if err != nil {
			return nil, err
		}
		return []int{p}, nil
	case RowPositions:
		positions := make([]int, len(v))
		for i, p := range v {
			np, err := normalizePosition(p, n)
			if err != nil {
				return nil, err
			}
			positions[i] = np
		}
		return positions, nil
	case RowBools:
		return flagPositions(v, n)
	case RowMask:
		flags, err := maskFlags(v.Table, errors.KindType)
		if err != nil {
			return nil, err
		}
		return flagPositions(flags, n)
	case Slice:
		start, err := intEndpoint(v.Start)
		if err != nil {
			return nil, err
		}
		stop, err := intEndpoint(v.Stop)
		if err != nil {
			return nil, err
		}
		return sliceIndices(n, start, stop, v.Step), nil
	default:
		return nil, errors.NewTypeErrorf(opGet, "unsupported row selector %T", sel)
	}
}

func (t *Table) resolveCols(sel ColSelector) ([]string, error) {
	names := t.store.order

	switch v := sel.(type) {
	case ColPosition:
		name, err := nameAt(names, int(v))
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	case ColLabel:
		return []string{string(v)}, nil
	case ColLabels:
		return append([]string(nil), v...), nil
	case ColPositions:
		labels := make([]string, len(v))
		for i, p := range v {
			name, err := nameAt(names, p)
			if err != nil {
				return nil, err
			}
			labels[i] = name
		}
		return labels, nil
	case ColMixed:
		return t.resolveMixed(v)
	case Slice:
		return resolveColSlice(names, v)
	default:
		return nil, errors.NewTypeErrorf(opGet, "unsupported column selector %T", sel)
	}
}

// resolveMixed maps each int to the label at that position and keeps
// each string. Other elements are dropped, or rejected in strict mode.
func (t *Table) resolveMixed(items ColMixed) ([]string, error) {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			labels = append(labels, s)
			continue
		}
		if p, ok := common.AsInt(item); ok {
			name, err := nameAt(t.store.order, p)
			if err != nil {
				return nil, err
			}
			labels = append(labels, name)
			continue
		}
		if t.cfg.StrictColumnList {
			return nil, errors.NewTypeErrorf(opGet, "column list entries must be int or string, got %T", item)
		}
		t.logger.Debug("skipping column list entry", "type", common.ToString(item))
	}
	return labels, nil
}

// resolveColSlice turns label endpoints into positions, with a label stop
// made inclusive, and slices the ordered column names.
func resolveColSlice(names []string, s Slice) ([]string, error) {
	start, err := labelEndpoint(names, s.Start, false)
	if err != nil {
		return nil, err
	}
	stop, err := labelEndpoint(names, s.Stop, true)
	if err != nil {
		return nil, err
	}

	positions := sliceIndices(len(names), start, stop, s.Step)
	labels := make([]string, len(positions))
	for i, p := range positions {
		labels[i] = names[p]
	}
	return labels, nil
}

func labelEndpoint(names []string, endpoint any, inclusive bool) (*int, error) {
	label, ok := endpoint.(string)
	if !ok {
		return intEndpoint(endpoint)
	}
	for i, name := range names {
		if name == label {
			if inclusive {
				i++
			}
			return &i, nil
		}
	}
	return nil, errors.NewColumnNotFoundError(opGet, label, names)
}

func intEndpoint(endpoint any) (*int, error) {
	if endpoint == nil {
		return nil, nil
	}
	n, ok := common.AsInt(endpoint)
	if !ok {
		return nil, errors.NewTypeErrorf(opGet, "slice endpoints must be int or nil, got %T", endpoint)
	}
	return &n, nil
}

func nameAt(names []string, p int) (string, error) {
	np, err := normalizePosition(p, len(names))
	if err != nil {
		return "", err
	}
	return names[np], nil
}

// normalizePosition maps a possibly negative position into [0, n).
func normalizePosition(p, n int) (int, error) {
	np := p
	if np < 0 {
		np += n
	}
	if np < 0 || np >= n {
		return 0, errors.NewIndexOutOfRangeError(opGet, p, n)
	}
	return np, nil
}

// sliceIndices expands start:stop:step over a sequence of length n the
// way Python does: negative endpoints count from the end and endpoints
// are clamped rather than rejected.
func sliceIndices(n int, start, stop *int, step int) []int {
	if step == 0 {
		step = 1
	}

	var lo, hi int
	if step > 0 {
		lo, hi = 0, n
		if start != nil {
			lo = clampForward(*start, n)
		}
		if stop != nil {
			hi = clampForward(*stop, n)
		}
		out := make([]int, 0, max(0, (hi-lo+step-1)/step))
		for i := lo; i < hi; i += step {
			out = append(out, i)
		}
		return out
	}

	lo, hi = n-1, -1
	if start != nil {
		lo = clampBackward(*start, n)
	}
	if stop != nil {
		hi = clampBackward(*stop, n)
	}
	out := make([]int, 0, max(0, (lo-hi-step-1)/(-step)))
	for i := lo; i > hi; i += step {
		out = append(out, i)
	}
	return out
}

func clampForward(p, n int) int {
	if p < 0 {
		p += n
		if p < 0 {
			return 0
		}
		return p
	}
	return min(p, n)
}

func clampBackward(p, n int) int {
	if p < 0 {
		p += n
		if p < 0 {
			return -1
		}
		return p
	}
	return min(p, n-1)
}
