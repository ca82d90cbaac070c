package scheduler

// product walks the Cartesian product of its lists one combination at a time, rightmost
// list varying fastest. The slice returned by next is reused by the following call.
type product struct {
	lists   [][]int64
	indexes []int
	current []int64
	started bool
	done    bool
}

func newProduct(lists [][]int64) *product {
	p := &product{
		lists:   lists,
		indexes: make([]int, len(lists)),
		current: make([]int64, len(lists)),
	}
	for _, l := range lists {
		if len(l) == 0 {
			p.done = true
		}
	}
	if len(lists) == 0 {
		p.done = true
	}
	return p
}

func (p *product) next() ([]int64, bool) {
	if p.done {
		return nil, false
	}

	if !p.started {
		p.started = true
		for i, l := range p.lists {
			p.current[i] = l[0]
		}
		return p.current, true
	}

	for i := len(p.lists) - 1; i >= 0; i-- {
		p.indexes[i]++
		if p.indexes[i] < len(p.lists[i]) {
			p.current[i] = p.lists[i][p.indexes[i]]
			return p.current, true
		}
		p.indexes[i] = 0
		p.current[i] = p.lists[i][0]
	}

	p.done = true
	return nil, false
}
