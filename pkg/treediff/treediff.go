// Package treediff compares two decoded JSON trees structurally.
package treediff

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/olusolaa/flow-drift-detector/pkg/canonical"
)

// RootPath is the address of the root of a tree.
const RootPath = "$"

type Change struct {
	Path   string
	Source string
	Target string
}

// Result lists paths only in the target (Added), only in the source (Removed),
// and scalar or type differences found at the same path (Changed).
type Result struct {
	Added   []string
	Removed []string
	Changed []Change
}

func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

type kind int

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
	kindOther
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, *big.Int:
		return kindNumber
	case string:
		return kindString
	case []any:
		return kindArray
	case map[string]any:
		return kindObject
	default:
		return kindOther
	}
}

// Diff compares a (source) against b (target) starting at RootPath.
func Diff(a, b any) Result {
	return DiffAt(a, b, RootPath)
}

// DiffAt is Diff with a caller-chosen root path. Inputs are never modified.
func DiffAt(a, b any, root string) Result {
	w := walker{}
	w.compare(a, b, root)
	return Result{
		Added:   nonNil(w.added),
		Removed: nonNil(w.removed),
		Changed: nonNilChanges(w.changed),
	}
}

type walker struct {
	added   []string
	removed []string
	changed []Change
}

func (w *walker) compare(a, b any, path string) {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		w.changed = append(w.changed, Change{Path: path, Source: Stringify(a), Target: Stringify(b)})
		return
	}

	switch ka {
	case kindObject:
		w.compareObjects(a.(map[string]any), b.(map[string]any), path)
	case kindArray:
		w.compareArrays(a.([]any), b.([]any), path)
	default:
		sa, sb := Stringify(a), Stringify(b)
		if sa != sb {
			w.changed = append(w.changed, Change{Path: path, Source: sa, Target: sb})
		}
	}
}

func (w *walker) compareObjects(a, b map[string]any, path string) {
	var onlyA, onlyB, both []string
	for k := range a {
		if _, ok := b[k]; ok {
			both = append(both, k)
		} else {
			onlyA = append(onlyA, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			onlyB = append(onlyB, k)
		}
	}
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	sort.Strings(both)

	for _, k := range onlyA {
		w.removed = append(w.removed, path+"."+k)
	}
	for _, k := range onlyB {
		w.added = append(w.added, path+"."+k)
	}
	for _, k := range both {
		w.compare(a[k], b[k], path+"."+k)
	}
}

func (w *walker) compareArrays(a, b []any, path string) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		p := path + "[" + strconv.Itoa(i) + "]"
		switch {
		case i >= len(a):
			w.added = append(w.added, p)
		case i >= len(b):
			w.removed = append(w.removed, p)
		default:
			w.compare(a[i], b[i], p)
		}
	}
}

// Stringify renders a value for display in a Change: strings verbatim, null as
// "null", numbers and booleans in JSON form, containers as canonical JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case *big.Int:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	default:
		s, err := canonical.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return s
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilChanges(s []Change) []Change {
	if s == nil {
		return []Change{}
	}
	return s
}
