package pixelunsort

import (
	"fmt"
	"strings"
)

// SortBy selects which axes are sorted and in what sequence.
type SortBy int

const (
	Row SortBy = iota
	Column
	RowCol // rows, then columns of the result
	ColRow // columns, then rows of the result
	Nothing
)

// SortOrder is the direction of a sort along one axis.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// DrawType selects how the permutation is applied.
type DrawType int

const (
	// Sort gathers the sort image's own pixels into sorted order.
	Sort DrawType = iota
	// Unsort scatters the unsort image's pixels out along the permutation
	// derived from the sort image.
	Unsort
)

// Dir returns +1 for Ascending and -1 for Descending.
func (o SortOrder) Dir() int {
	if o == Descending {
		return -1
	}
	return 1
}

// Neg returns the opposite order. Neg is an involution.
func (o SortOrder) Neg() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

var (
	sortByNames    = []string{"row", "column", "rowcol", "colrow", "nothing"}
	sortOrderNames = []string{"ascending", "descending"}
	drawTypeNames  = []string{"sort", "unsort"}
)

func enumString(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("invalid(%d)", v)
	}
	return names[v]
}

func parseEnum(kind string, names []string, aliases map[string]int, text []byte) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	if v, ok := aliases[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("pixelunsort: unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (s SortBy) String() string { return enumString(sortByNames, int(s)) }

func (s SortBy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SortBy) UnmarshalText(text []byte) error {
	v, err := parseEnum("sort axis", sortByNames, map[string]int{
		"rows": int(Row), "columns": int(Column), "col": int(Column), "none": int(Nothing),
	}, text)
	if err != nil {
		return err
	}
	*s = SortBy(v)
	return nil
}

func (o SortOrder) String() string { return enumString(sortOrderNames, int(o)) }

func (o SortOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *SortOrder) UnmarshalText(text []byte) error {
	v, err := parseEnum("sort order", sortOrderNames, map[string]int{
		"asc": int(Ascending), "desc": int(Descending),
	}, text)
	if err != nil {
		return err
	}
	*o = SortOrder(v)
	return nil
}

func (d DrawType) String() string { return enumString(drawTypeNames, int(d)) }

func (d DrawType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DrawType) UnmarshalText(text []byte) error {
	v, err := parseEnum("draw type", drawTypeNames, nil, text)
	if err != nil {
		return err
	}
	*d = DrawType(v)
	return nil
}
