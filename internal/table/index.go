package table

import (
	"github.com/paveg/tisch/internal/common"
	"github.com/paveg/tisch/internal/errors"
)

// Index is a selection expression. It is a closed set of variants:
// Label, Labels, Mask and RowCol.
type Index interface {
	isIndex()
}

// Label selects a single column.
type Label string

// Labels selects the listed columns in the listed order.
type Labels []string

// Mask filters rows by a one-column boolean table.
type Mask struct {
	Table *Table
}

// RowCol selects rows and columns independently.
type RowCol struct {
	Rows RowSelector
	Cols ColSelector
}

func (Label) isIndex()  {}
func (Labels) isIndex() {}
func (Mask) isIndex()   {}
func (RowCol) isIndex() {}

// RowSelector is the row half of a RowCol: RowPosition, RowPositions,
// RowBools, RowMask or Slice.
type RowSelector interface {
	isRowSelector()
}

// RowPosition selects a single row; negative positions count from the end.
type RowPosition int

// RowPositions selects rows by position, in the given order.
type RowPositions []int

// RowBools keeps the rows whose flag is true.
type RowBools []bool

// RowMask keeps the rows where a one-column boolean table is true.
type RowMask struct {
	Table *Table
}

func (RowPosition) isRowSelector()  {}
func (RowPositions) isRowSelector() {}
func (RowBools) isRowSelector()     {}
func (RowMask) isRowSelector()      {}
func (Slice) isRowSelector()        {}

// ColSelector is the column half of a RowCol: ColPosition, ColLabel,
// ColLabels, ColPositions, ColMixed or Slice.
type ColSelector interface {
	isColSelector()
}

// ColPosition selects a column by its position in the current order.
type ColPosition int

// ColLabel selects a column by name.
type ColLabel string

// ColLabels selects columns by name.
type ColLabels []string

// ColPositions selects columns by position.
type ColPositions []int

// ColMixed selects columns by a mix of positions and names. Elements that
// are neither are skipped unless the table's config sets StrictColumnList.
type ColMixed []any

func (ColPosition) isColSelector()  {}
func (ColLabel) isColSelector()     {}
func (ColLabels) isColSelector()    {}
func (ColPositions) isColSelector() {}
func (ColMixed) isColSelector()     {}
func (Slice) isColSelector()        {}

// Slice is a half-open range with Python slicing semantics. Start and
// Stop are nil (open), an int, or for columns a label; a label Stop is
// inclusive. A zero Step means 1.
type Slice struct {
	Start any
	Stop  any
	Step  int
}

// Span returns the slice [start:stop].
func Span(start, stop any) Slice {
	return Slice{Start: start, Stop: stop}
}

// All returns the slice selecting everything.
func All() Slice {
	return Slice{}
}

// Tuple is the untyped row/column pair accepted by Get. It must have
// exactly two elements.
type Tuple []any

// ParseIndex resolves an untyped index into an Index:
//
//	string          -> Label
//	[]string, []any -> Labels
//	*Table          -> Mask
//	Tuple           -> RowCol
//
// Any other value, including a bare bool, is a type error.
func ParseIndex(index any) (Index, error) {
	const op = "Get"

	switch v := index.(type) {
	case Index:
		return v, nil
	case string:
		return Label(v), nil
	case []string:
		return Labels(v), nil
	case []any:
		labels := make(Labels, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, errors.NewTypeErrorf(op, "column list entries must be strings, got %T", e)
			}
			labels[i] = s
		}
		return labels, nil
	case *Table:
		return Mask{Table: v}, nil
	case Tuple:
		if len(v) != 2 {
			return nil, errors.NewTypeErrorf(op, "tuple must have length of exactly 2, got %d", len(v))
		}
		rows, err := ParseRows(v[0])
		if err != nil {
			return nil, err
		}
		cols, err := ParseCols(v[1])
		if err != nil {
			return nil, err
		}
		return RowCol{Rows: rows, Cols: cols}, nil
	default:
		return nil, errors.NewTypeErrorf(op,
			"wrong index type %T: pass a string, a list of strings, a Table or a Tuple", index)
	}
}

// ParseRows resolves the row half of a Tuple.
func ParseRows(rows any) (RowSelector, error) {
	switch v := rows.(type) {
	case RowSelector:
		return v, nil
	case *Table:
		return RowMask{Table: v}, nil
	case []int:
		return RowPositions(v), nil
	case []bool:
		return RowBools(v), nil
	case []any:
		return parseRowList(v)
	}
	if n, ok := common.AsInt(rows); ok {
		return RowPosition(n), nil
	}
	return nil, errors.NewTypeErrorf("Get", "row selection is not a list, slice, int or Table: %T", rows)
}

// parseRowList accepts a list of all ints or all bools.
func parseRowList(items []any) (RowSelector, error) {
	if len(items) > 0 {
		if _, ok := items[0].(bool); ok {
			flags := make(RowBools, len(items))
			for i, e := range items {
				b, ok := e.(bool)
				if !ok {
					return nil, errors.NewTypeErrorf("Get", "row mask entries must be bools, got %T", e)
				}
				flags[i] = b
			}
			return flags, nil
		}
	}

	positions := make(RowPositions, len(items))
	for i, e := range items {
		n, ok := common.AsInt(e)
		if !ok {
			return nil, errors.NewTypeErrorf("Get", "row positions must be ints, got %T", e)
		}
		positions[i] = n
	}
	return positions, nil
}

// ParseCols resolves the column half of a Tuple.
func ParseCols(cols any) (ColSelector, error) {
	switch v := cols.(type) {
	case ColSelector:
		return v, nil
	case string:
		return ColLabel(v), nil
	case []string:
		return ColLabels(v), nil
	case []int:
		return ColPositions(v), nil
	case []any:
		return ColMixed(v), nil
	}
	if n, ok := common.AsInt(cols); ok {
		return ColPosition(n), nil
	}
	return nil, errors.NewTypeErrorf("Get", "column selection must be slice, int, list or string: %T", cols)
}
