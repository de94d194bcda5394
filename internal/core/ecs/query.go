package ecs

import "iter"

// Each calls fn for every entity holding an A. A nil pool yields nothing.
func Each[A any](sa *Pool[A], fn func(EntityID, *A)) {
	if sa == nil {
		return
	}
	sa.Each(fn)
}

// Join yields the entities present in every pool. It drives the smallest
// pool and probes the rest, so entities removed by the caller mid-iteration
// are skipped.
func Join(pools ...Storage) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		if len(pools) == 0 {
			return
		}
		drive := pools[0]
		for _, s := range pools[1:] {
			if s.Len() < drive.Len() {
				drive = s
			}
		}
	next:
		for _, id := range drive.Entities() {
			for _, s := range pools {
				if !s.Has(id) {
					continue next
				}
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](sa *Pool[A], sb *Pool[B], fn func(EntityID, *A, *B)) {
	if sa == nil || sb == nil {
		return
	}
	for id := range Join(sa, sb) {
		fn(id, sa.Get(id), sb.Get(id))
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *Pool[A], sb *Pool[B], sc *Pool[C], fn func(EntityID, *A, *B, *C)) {
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for id := range Join(sa, sb, sc) {
		fn(id, sa.Get(id), sb.Get(id), sc.Get(id))
	}
}
