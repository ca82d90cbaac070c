package scheduler

type pairKey struct {
	lo, hi int64
}

func makePairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// conflictSet memoizes conflicting pairs found during one search.
// Pairs involving RestrictionOwner reject any candidate holding the other section.
type conflictSet map[pairKey]struct{}

func (s conflictSet) add(c Conflict) {
	s[makePairKey(c.Section, c.Other)] = struct{}{}
}

// rejects reports whether the candidate holds a pair already known to conflict
func (s conflictSet) rejects(candidate []int64) bool {
	if len(s) == 0 {
		return false
	}
	for i, a := range candidate {
		if _, ok := s[makePairKey(RestrictionOwner, a)]; ok {
			return true
		}
		for _, b := range candidate[i+1:] {
			if _, ok := s[makePairKey(a, b)]; ok {
				return true
			}
		}
	}
	return false
}

// scheduleKey identifies a schedule by its set of section ids, independent of order
type scheduleKey [MaxCourses]int64

// keyOf returns the set key of ids. ok is false when the set cannot match any candidate
// (more distinct sections than a schedule can hold).
func keyOf(ids []int64) (key scheduleKey, ok bool) {
	n := 0
	for _, id := range ids {
		dup := false
		for _, seen := range key[:n] {
			if seen == id {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if n == MaxCourses {
			return scheduleKey{}, false
		}
		key[n] = id
		n++
	}

	// insertion sort, n <= MaxCourses
	for i := 1; i < n; i++ {
		for j := i; j > 0 && key[j] < key[j-1]; j-- {
			key[j], key[j-1] = key[j-1], key[j]
		}
	}
	return key, true
}
