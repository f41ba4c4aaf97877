// Package grid turns a partial description of a survey's axes into the full
// set of NetCDF dimensions, and maps grid positions back to trace ordinals.
package grid

import (
	"fmt"
	"math"
	"math/bits"

	cerrors "github.com/robert-malhotra/segy2netcdf/internal/errors"
)

const (
	// DefaultSampleName names the sample axis when the user gives none.
	DefaultSampleName = "SampleNumber"
	// TracesName names the axis prepended when the declared axes hold
	// fewer traces than the file.
	TracesName = "Traces"
)

// Axis is a named non-sample dimension declared by the user.
type Axis struct {
	Name   string `yaml:"name"`
	Length int    `yaml:"length"`
}

func (a Axis) String() string { return fmt.Sprintf("%s=%d", a.Name, a.Length) }

// Resolve lists the user's axes in order followed by the sample axis of
// length ns. An empty sampleName selects DefaultSampleName.
func Resolve(user []Axis, sampleName string, ns int) (names []string, lens []int) {
	if sampleName == "" {
		sampleName = DefaultSampleName
	}
	names = make([]string, 0, len(user)+1)
	lens = make([]int, 0, len(user)+1)
	for _, a := range user {
		names = append(names, a.Name)
		lens = append(lens, a.Length)
	}
	return append(names, sampleName), append(lens, ns)
}

// CountTraces returns the number of traces the user's axes describe: the
// product of their lengths, 1 when there are none. A product that does not
// fit in an int saturates at math.MaxInt (or -math.MaxInt when negative).
func CountTraces(user []Axis) int {
	for _, a := range user {
		if a.Length == 0 {
			return 0
		}
	}
	n, neg, overflow := 1, false, false
	for _, a := range user {
		l := a.Length
		if l < 0 {
			neg = !neg
			l = -l
		}
		if !overflow {
			var ok bool
			n, ok = mulLen(n, l)
			overflow = !ok
		}
	}
	if overflow {
		n = math.MaxInt
	}
	if neg {
		return -n
	}
	return n
}

// mulLen multiplies two axis lengths taken as unsigned magnitudes and
// reports whether the product fits in an int.
func mulLen(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

// CountError reports declared axes that cannot hold the file's traces.
type CountError struct {
	Implied int // traces implied by the declared axes
	Actual  int // traces in the file
	Reason  string
}

func (e *CountError) Error() string {
	if e.Implied == math.MaxInt {
		return fmt.Sprintf("%s: dimensions imply more than %d traces, file has %d", e.Reason, e.Implied, e.Actual)
	}
	return fmt.Sprintf("%s: dimensions imply %d traces, file has %d", e.Reason, e.Implied, e.Actual)
}

// Validate checks that dimsTraces declared traces can tile ntraces actual
// ones. Failures are configuration errors wrapping a *CountError.
func Validate(dimsTraces, ntraces int) error {
	var reason string
	switch {
	case dimsTraces > ntraces:
		reason = "too many traces in dimensions"
	case dimsTraces < 0:
		reason = "negative number of traces in dimensions"
	case dimsTraces == 0 && ntraces > 0:
		reason = "dimensions hold no traces"
	case dimsTraces == 0:
		return nil
	case ntraces%dimsTraces != 0:
		reason = "number of traces is not a multiple of the traces in dimensions"
	default:
		return nil
	}
	return cerrors.Wrap(cerrors.KindConfiguration, "validate dimensions",
		&CountError{Implied: dimsTraces, Actual: ntraces, Reason: reason})
}

// FillMissing prepends a TracesName axis of length ntraces/dimsTraces when
// the declared axes hold fewer traces than the file. The counts must have
// passed Validate. The inputs are not modified.
func FillMissing(dimsTraces, ntraces int, names []string, lens []int) ([]string, []int) {
	names = append([]string(nil), names...)
	lens = append([]int(nil), lens...)
	if dimsTraces == 0 || dimsTraces >= ntraces {
		return names, lens
	}
	return append([]string{TracesName}, names...), append([]int{ntraces / dimsTraces}, lens...)
}

// Spec is the finalized grid: every axis slowest first, the sample axis
// last.
type Spec struct {
	Names []string
	Lens  []int
}

// Build resolves, validates and completes the user's axes against a file
// of ntraces traces of ns samples.
func Build(user []Axis, sampleName string, ns, ntraces int) (Spec, error) {
	names, lens := Resolve(user, sampleName, ns)
	dimsTraces := CountTraces(user)
	if err := Validate(dimsTraces, ntraces); err != nil {
		return Spec{}, err
	}
	for _, a := range user {
		if a.Length < 0 {
			return Spec{}, cerrors.New(cerrors.KindConfiguration, "validate dimensions",
				"dimension %s has negative length %d", a.Name, a.Length)
		}
	}
	names, lens = FillMissing(dimsTraces, ntraces, names, lens)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return Spec{}, cerrors.New(cerrors.KindConfiguration, "validate dimensions", "empty dimension name")
		}
		if seen[n] {
			return Spec{}, cerrors.New(cerrors.KindConfiguration, "validate dimensions", "duplicate dimension %q", n)
		}
		seen[n] = true
	}
	return Spec{Names: names, Lens: lens}, nil
}

// Len returns the number of axes including the sample axis.
func (s Spec) Len() int { return len(s.Names) }

// SampleName returns the name of the sample axis.
func (s Spec) SampleName() string { return s.Names[len(s.Names)-1] }

// SampleCount returns the length of the sample axis.
func (s Spec) SampleCount() int { return s.Lens[len(s.Lens)-1] }

// TraceAxes returns the non-sample axes.
func (s Spec) TraceAxes() ([]string, []int) {
	n := len(s.Names) - 1
	return s.Names[:n:n], s.Lens[:n:n]
}

// Index returns the trace index grid over the non-sample axes.
func (s Spec) Index() (*IndexGrid, error) {
	names, lens := s.TraceAxes()
	return NewIndexGrid(names, lens)
}

func (s Spec) String() string {
	out := ""
	for i := range s.Names {
		if i > 0 {
			out += " x "
		}
		out += fmt.Sprintf("%s(%d)", s.Names[i], s.Lens[i])
	}
	return out
}
