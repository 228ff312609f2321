package mines

// celltodo is the work list of the flood fill: a LIFO of cell indices.
type celltodo struct {
	next []int
}

func (std *celltodo) add(i int) {
	std.next = append(std.next, i)
}

func (std *celltodo) pop() (int, bool) {
	n := len(std.next)
	if n == 0 {
		return -1, false
	}
	i := std.next[n-1]
	std.next = std.next[:n-1]
	return i, true
}
