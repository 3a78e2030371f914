// Package trans validates formula ASTs against variable declarations and
// translates them into the structures that robustness monitors consume. Two
// targets are supported: a dense-time monitor that takes a flattened table of
// linear constraints, and a discrete-time monitor that walks the operator
// tree directly with signal names resolved to trace column indices.
package trans

import (
	"fmt"
	"sort"
)

// DType is the data type of a declared signal.
type DType int

const (
	// Float is a real-valued signal compared against thresholds.
	Float DType = iota

	// Bool is a boolean signal used as a bare predicate name.
	Bool
)

func (dt DType) String() string {
	switch dt {
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("DType(%d)", int(dt))
	}
}

// ParseDType converts a data type name to a DType.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float":
		return Float, nil
	case "bool":
		return Bool, nil
	default:
		return Float, fmt.Errorf("not a valid data type: %q", s)
	}
}

// Target is the kind of monitor a formula is being compiled for.
type Target int

const (
	// TargetTree is a discrete-time monitor that evaluates the operator tree
	// directly, one trace step at a time.
	TargetTree Target = iota

	// TargetLinear is a dense-time monitor that takes predicates as linear
	// constraints over trace columns. It has no notion of a discrete step, so
	// the next operator cannot be compiled for it, and it requires non-strict
	// comparisons.
	TargetLinear
)

func (t Target) String() string {
	switch t {
	case TargetTree:
		return "tree"
	case TargetLinear:
		return "linear"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ParseTarget converts a target name to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "tree":
		return TargetTree, nil
	case "linear":
		return TargetLinear, nil
	default:
		return TargetTree, fmt.Errorf("not a valid target: %q", s)
	}
}

// Binding declares one signal name a formula may refer to, along with the
// trace column it is read from.
type Binding struct {
	// Name is the signal name as written in formulas.
	Name string

	// Column is the 0-indexed trace column the signal is read from.
	Column int

	// DType is the data type of the signal. Comparison predicates require a
	// Float signal; bare-name predicates require a Bool signal.
	DType DType

	// Row and Bound optionally predefine the linear constraint emitted when
	// the name is used as a bare predicate under the linear-constraint
	// target. Row must be as wide as the full column set. They are ignored
	// for Float signals and for the tree target.
	Row   []float64
	Bound *float64
}

// Decls is an immutable set of signal declarations, held in the order they
// were declared. The zero value declares nothing; use NewDecls to build one.
type Decls struct {
	ordered []Binding
	byName  map[string]int
	width   int
}

// NewDecls builds a declaration set from the given bindings. Names must be
// unique, match identifier syntax, and have non-negative column indices.
func NewDecls(bindings ...Binding) (Decls, error) {
	d := Decls{
		byName: make(map[string]int),
	}

	for _, b := range bindings {
		if !validName(b.Name) {
			return Decls{}, fmt.Errorf("%q is not a valid signal name", b.Name)
		}
		if _, ok := d.byName[b.Name]; ok {
			return Decls{}, fmt.Errorf("signal %q is declared twice", b.Name)
		}
		if b.Column < 0 {
			return Decls{}, fmt.Errorf("signal %q has negative column index %d", b.Name, b.Column)
		}

		d.byName[b.Name] = len(d.ordered)
		d.ordered = append(d.ordered, b)

		if b.Column+1 > d.width {
			d.width = b.Column + 1
		}
	}

	return d, nil
}

// Get returns the binding for the given name, if it is declared.
func (d Decls) Get(name string) (Binding, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return Binding{}, false
	}
	return d.ordered[idx], true
}

// Len returns the number of declared signals.
func (d Decls) Len() int {
	return len(d.ordered)
}

// Width returns the number of trace columns the declarations span; it is one
// more than the highest declared column index.
func (d Decls) Width() int {
	return d.width
}

// Bindings returns a copy of all declarations in declaration order.
func (d Decls) Bindings() []Binding {
	all := make([]Binding, len(d.ordered))
	copy(all, d.ordered)
	return all
}

// ColumnNames returns one name per trace column, ordered by column index.
// Columns that no declaration maps to are empty strings.
func (d Decls) ColumnNames() []string {
	names := make([]string, d.width)
	for _, b := range d.ordered {
		names[b.Column] = b.Name
	}
	return names
}

// Names returns all declared names, sorted.
func (d Decls) Names() []string {
	names := make([]string, len(d.ordered))
	for i, b := range d.ordered {
		names[i] = b.Name
	}
	sort.Strings(names)
	return names
}

func validName(name string) bool {
	if name == "" {
		return false
	}

	for i, ch := range name {
		isAlpha := ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
		if i == 0 {
			if !isAlpha {
				return false
			}
			continue
		}
		if !isAlpha && !('0' <= ch && ch <= '9') && ch != '_' {
			return false
		}
	}

	return true
}
