package surface

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrOutOfRange is wrapped by every OutOfRangeError.
var ErrOutOfRange = errors.New("surface function index out of range")

// OutOfRangeError reports a function index outside [0, Count).
type OutOfRangeError struct {
	Index Name
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("surface: function index %d not in [0,%d)", int(e.Index), e.Count)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// Entry is one named function in a Registry.
type Entry struct {
	Name string
	Func Func
}

// Registry is an ordered, fixed set of surface functions. Indices are
// contiguous in [0, Count) and never change after construction.
type Registry struct {
	entries []Entry
}

// Default holds the five canonical functions in Name order.
var Default = NewRegistry(
	Entry{Name: Wave.String(), Func: Wave},
	Entry{Name: MultiWave.String(), Func: MultiWave},
	Entry{Name: Ripple.String(), Func: Ripple},
	Entry{Name: Sphere.String(), Func: Sphere},
	Entry{Name: Torus.String(), Func: Torus},
)

func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if e.Func == nil {
			continue
		}
		r.entries = append(r.entries, e)
	}
	return r
}

func (r *Registry) Count() int { return len(r.entries) }

// Get returns the function at index n. An index outside [0, Count) is a
// programming error and panics with *OutOfRangeError.
func (r *Registry) Get(n Name) Func {
	f, err := r.Lookup(n)
	if err != nil {
		panic(err)
	}
	return f
}

// Lookup is Get without the panic, for validating configuration.
func (r *Registry) Lookup(n Name) (Func, error) {
	if n < 0 || int(n) >= len(r.entries) {
		return nil, &OutOfRangeError{Index: n, Count: len(r.entries)}
	}
	return r.entries[n].Func, nil
}

// Label returns the registered name of n, or "" when n is out of range.
func (r *Registry) Label(n Name) string {
	if n < 0 || int(n) >= len(r.entries) {
		return ""
	}
	return r.entries[n].Name
}

// Find resolves a registered name, ignoring case and surrounding space.
func (r *Registry) Find(label string) (Name, bool) {
	label = strings.TrimSpace(label)
	for i, e := range r.entries {
		if strings.EqualFold(e.Name, label) {
			return Name(i), true
		}
	}
	return 0, false
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Name)
	}
	return out
}

// Next returns the index after current, wrapping to 0 past the last one.
func (r *Registry) Next(current Name) Name {
	if int(current) < len(r.entries)-1 {
		return current + 1
	}
	return 0
}

// Random draws uniformly from [1, Count) and substitutes 0 when the draw
// equals current. Index 0 is only ever reached through that substitution.
// The result never equals current.
func (r *Registry) Random(current Name, rng Rand) Name {
	n := len(r.entries)
	if n < 2 {
		return 0
	}
	choice := Name(1 + rng.IntN(n-1))
	if choice == current {
		return 0
	}
	return choice
}

// Rand is the source used by Random.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG-backed source. The same seed always yields the same
// sequence of choices.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// ParseName resolves a function name against the Default registry.
func ParseName(s string) (Name, error) {
	n, ok := Default.Find(s)
	if !ok {
		return 0, fmt.Errorf("unknown surface function %q (want one of %s)", s, strings.Join(Default.List(), ", "))
	}
	return n, nil
}
