package volume

import (
	"cmp"
	"slices"
)

// Reconciler holds the live volume set across cycles. It is owned by
// one sampling loop and is not safe for concurrent use.
type Reconciler struct {
	known map[string]Record
}

// NewReconciler creates an empty Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{known: make(map[string]Record)}
}

// Reconcile replaces the live set with current and returns the
// membership delta. Volumes whose usage could not be read this cycle
// should simply be left out of current; they are reported as removed.
func (r *Reconciler) Reconcile(current []Record) Delta {
	prev := make(map[string]struct{}, len(r.known))
	for id := range r.known {
		prev[id] = struct{}{}
	}

	d := Diff(prev, current)

	next := make(map[string]Record, len(current))
	for _, rec := range current {
		if _, dup := next[rec.DisplayID]; dup {
			continue
		}
		next[rec.DisplayID] = rec
	}
	r.known = next
	return d
}

// Records returns the live set ordered by display id.
func (r *Reconciler) Records() []Record {
	out := make([]Record, 0, len(r.known))
	for _, rec := range r.known {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Compare(a.DisplayID, b.DisplayID)
	})
	return out
}

// Len returns the size of the live set.
func (r *Reconciler) Len() int {
	return len(r.known)
}
