package superdrop

// Compact removes null superdroplets in place, preserving the relative
// order of the rest, and returns the shortened slice and how many were
// removed.
func Compact(drops []Superdrop) ([]Superdrop, int) {
	n := 0
	for i := range drops {
		if drops[i].IsNull() {
			continue
		}
		if n != i {
			drops[n] = drops[i]
		}
		n++
	}
	removed := len(drops) - n
	clear(drops[n:])
	return drops[:n], removed
}

// CountNull returns how many superdroplets in drops are null.
func CountNull(drops []Superdrop) int {
	c := 0
	for i := range drops {
		if drops[i].IsNull() {
			c++
		}
	}
	return c
}

// TotalXi sums multiplicities.
func TotalXi(drops []Superdrop) uint64 {
	var tot uint64
	for i := range drops {
		tot += drops[i].Xi()
	}
	return tot
}
