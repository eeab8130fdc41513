package utils

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

// NewRange produces the inclusive integer range [rmin, rmax].
func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Contains(val int) bool {
	for _, v := range I {
		if v == val {
			return true
		}
	}
	return false
}
