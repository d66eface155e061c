// Package customvar models provider custom variables and the two ways they are
// rendered into a page.
//
// [Immediate] writes one push call per variable, so variables known when the
// initialization script is rendered become part of its text. [Deferred] never
// pushes from the call site: each call site appends a descriptor to a
// page-global array, and the initialization script carries a fixed loop that
// drains that array in the browser. The array exists only in the emitted
// script; nothing here holds it.
package customvar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/analytical/pkg/jscall"
)

// Scope is the lifetime of a custom variable.
type Scope int

// Scopes accepted by providers.
const (
	Visitor Scope = 1
	Session Scope = 2
	Page    Scope = 3
)

// Slot bounds accepted by providers.
const (
	MinSlot = 1
	MaxSlot = 5
)

var (
	// ErrSlotOutOfRange is returned by Validate for slots outside 1..5.
	ErrSlotOutOfRange = errors.New("customvar: slot out of range")
	// ErrScopeOutOfRange is returned by Validate for scopes outside 1..3.
	ErrScopeOutOfRange = errors.New("customvar: scope out of range")
)

// Variable is a slot/key/value/scope tuple.
type Variable struct {
	Slot  int    `yaml:"slot"`
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Scope Scope  `yaml:"scope"`
}

// Args returns the variable as call arguments in slot, key, value, scope order.
func (v Variable) Args() []any {
	return []any{v.Slot, v.Key, v.Value, int(v.Scope)}
}

// Validate checks slot and scope ranges. Rendering never calls it; values
// outside the ranges are passed through unless a caller opts in.
func (v Variable) Validate() error {
	if v.Slot < MinSlot || v.Slot > MaxSlot {
		return fmt.Errorf("%w: %d (key %q)", ErrSlotOutOfRange, v.Slot, v.Key)
	}

	if v.Scope < Visitor || v.Scope > Page {
		return fmt.Errorf("%w: %d (key %q)", ErrScopeOutOfRange, v.Scope, v.Key)
	}

	return nil
}

// ValidateAll validates every variable and joins the failures.
func ValidateAll(vars []Variable) error {
	var errs []error
	for _, v := range vars {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Buffer renders custom variables for one provider.
type Buffer interface {
	// Call renders the snippet emitted where a custom variable is set.
	Call(v Variable) string
	// Init renders the part of the initialization script that applies
	// custom variables.
	Init(vars []Variable) string
}

// Immediate renders every variable as its own push call.
type Immediate struct {
	Shape jscall.Shape
}

// Call renders a single push call.
func (b Immediate) Call(v Variable) string {
	return b.Shape.Render(v.Args()...)
}

// Init renders one push call per variable, in the order given.
func (b Immediate) Init(vars []Variable) string {
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, b.Call(v))
	}

	return strings.Join(lines, "\n")
}

// DefaultGlobal is the page-global array used by Deferred when Global is empty.
const DefaultGlobal = "custom_variables"

// Deferred collects variables into a page-global array that the
// initialization script drains.
type Deferred struct {
	Global string // Name of the page-global array.
	Push   string // Statement executed per entry; the entry is bound to `cv`.
}

func (b Deferred) global() string {
	if b.Global == "" {
		return DefaultGlobal
	}

	return b.Global
}

// Call renders a statement that creates the global array on first use and
// appends the variable to it.
func (b Deferred) Call(v Variable) string {
	g := b.global()

	return fmt.Sprintf("var %s = %s || []; %s.push({slot: %d, key: %s, value: %s, scope: %d});",
		g, g, g, v.Slot, jscall.SingleQuote(v.Key), jscall.SingleQuote(v.Value), v.Scope)
}

// Init renders the fixed loop that pushes every entry of the global array.
// The text does not depend on vars.
func (b Deferred) Init(_ []Variable) string {
	g := b.global()

	return fmt.Sprintf(`if (typeof %s !== 'undefined') {
  for (var i = 0; i < %s.length; i++) {
    var cv = %s[i];
    %s
  }
}`, g, g, g, b.Push)
}
