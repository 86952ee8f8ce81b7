package codedom

import "github.com/cmmoran/clientgen/pkg/errors"

// SkipChildren may be returned by a WalkFunc to skip the descendants of the
// element it was called with.
var SkipChildren = errors.New("skip children")

// WalkFunc is called once per visited element.
type WalkFunc func(e Element) error

// Walk visits e and every descendant depth-first, parent before children.
// The children of an element are read once fn has returned for it and the
// list is snapshotted, so fn may attach or detach members of any ancestor
// while the walk is below it. Weak references are never followed.
func Walk(e Element, fn WalkFunc) error {
	if e == nil {
		return nil
	}
	if err := fn(e); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range e.Children() {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Collect returns every element of type T below and including e, in Walk
// order.
func Collect[T Element](e Element) []T {
	var out []T
	_ = Walk(e, func(el Element) error {
		if t, ok := el.(T); ok {
			out = append(out, t)
		}
		return nil
	})
	return out
}
