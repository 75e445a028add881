package pages

import (
	"errors"
	"fmt"

	"github.com/olehluchkiv/epwizard/internal/options"
)

// ErrPaginationInvariant is returned when emitted pages do not account for
// every input field exactly once, in order.
var ErrPaginationInvariant = errors.New("pagination invariant violated")

// Step is one page of the wizard. All steps of a build share the same
// AllFields slice.
type Step struct {
	Index      int
	TotalPages int
	GroupName  string // group of the first field on the page
	AllFields  []options.FieldDescriptor
	PageFields []options.FieldDescriptor
	IsLast     bool
}

// IsFirst reports whether s is the first page.
func (s Step) IsFirst() bool { return s.Index == 0 }

// Paginator turns option groups into wizard steps.
type Paginator interface {
	Paginate(groups []options.OptionGroup, maxFieldsPerPage int) ([]Step, error)
}

// PaginatorFunc adapts a function to Paginator.
type PaginatorFunc func(groups []options.OptionGroup, maxFieldsPerPage int) ([]Step, error)

func (f PaginatorFunc) Paginate(groups []options.OptionGroup, maxFieldsPerPage int) ([]Step, error) {
	return f(groups, maxFieldsPerPage)
}

// Default is the paginator used by the wizard.
var Default Paginator = PaginatorFunc(Paginate)

// Paginate lays groups out on pages of at most maxFieldsPerPage fields.
//
// A non-empty page is closed at every group boundary, except when the next
// group is larger than the cap and starting it on the current page does not
// make it span more pages than ceil(len/cap). Groups without fields are
// skipped. An empty input yields a single empty last page so the wizard
// can still be committed.
func Paginate(groups []options.OptionGroup, maxFieldsPerPage int) ([]Step, error) {
	if maxFieldsPerPage <= 0 {
		return nil, fmt.Errorf("%w: got %d", options.ErrInvalidPageSize, maxFieldsPerPage)
	}

	all := options.Flatten(groups)

	var (
		layout   [][]options.FieldDescriptor
		names    []string
		cur      []options.FieldDescriptor
		curGroup string
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		layout = append(layout, cur)
		names = append(names, curGroup)
		cur = nil
	}

	for _, g := range groups {
		if len(g.Fields) == 0 {
			continue
		}
		if len(cur) > 0 && !shareLastPage(len(cur), len(g.Fields), maxFieldsPerPage) {
			flush()
		}
		for _, f := range g.Fields {
			if len(cur) == maxFieldsPerPage {
				flush()
			}
			if len(cur) == 0 {
				curGroup = g.Name
			}
			cur = append(cur, f)
		}
	}
	flush()

	if len(layout) == 0 {
		return []Step{{Index: 0, TotalPages: 1, AllFields: all, IsLast: true}}, nil
	}

	steps := make([]Step, len(layout))
	for i, fields := range layout {
		steps[i] = Step{
			Index:      i,
			TotalPages: len(layout),
			GroupName:  names[i],
			AllFields:  all,
			PageFields: fields,
			IsLast:     i == len(layout)-1,
		}
	}

	if err := verify(all, steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// shareLastPage reports whether a group of n fields may start on a page
// that already holds used fields.
func shareLastPage(used, n, capacity int) bool {
	free := capacity - used
	if n <= capacity || free <= 0 {
		return false
	}
	return 1+ceilDiv(n-free, capacity) <= ceilDiv(n, capacity)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// verify checks that the concatenated page fields reproduce all exactly.
func verify(all []options.FieldDescriptor, steps []Step) error {
	i := 0
	for _, s := range steps {
		for _, f := range s.PageFields {
			if i >= len(all) || all[i].Key != f.Key {
				return fmt.Errorf("%w: page %d field %q out of place", ErrPaginationInvariant, s.Index, f.Key)
			}
			i++
		}
	}
	if i != len(all) {
		return fmt.Errorf("%w: emitted %d of %d fields", ErrPaginationInvariant, i, len(all))
	}
	return nil
}
