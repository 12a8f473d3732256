package pes

// Pair is an unordered atom pair stored as (min, max).
type Pair struct {
	I, J int
}

func NewPair(i, j int) Pair {
	if j < i {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// PairSet is a set of unordered atom pairs.
type PairSet map[Pair]struct{}

// NewPairSet builds a set from index pairs for an n-atom system. Any index
// outside [0, n) fails with ErrInvalidExclusion.
func NewPairSet(pairs [][2]int, n int) (PairSet, error) {
	set := make(PairSet, len(pairs))
	for _, p := range pairs {
		if p[0] < 0 || p[0] >= n || p[1] < 0 || p[1] >= n {
			return nil, &PairError{I: p[0], J: p[1], Wrapped: ErrInvalidExclusion}
		}
		set[NewPair(p[0], p[1])] = struct{}{}
	}
	return set, nil
}

// Contains reports whether (i, j) or (j, i) is in the set.
func (s PairSet) Contains(i, j int) bool {
	_, ok := s[NewPair(i, j)]
	return ok
}

func (s PairSet) Len() int { return len(s) }

// TypeSet is a set of atom type labels.
type TypeSet map[string]struct{}

func NewTypeSet(types []string) TypeSet {
	set := make(TypeSet, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

func (s TypeSet) Contains(t string) bool {
	_, ok := s[t]
	return ok
}
