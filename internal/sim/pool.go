package sim

import "sync"

// StatePool recycles state vectors of one fixed size between steps.
type StatePool struct {
	pool sync.Pool
	size int
}

func NewStatePool(stateSize int) *StatePool {
	p := &StatePool{size: stateSize}
	p.pool.New = func() any { return make(State, stateSize) }
	return p
}

func (p *StatePool) Size() int { return p.size }

func (p *StatePool) Get() State {
	return p.pool.Get().(State)
}

// Put zeroes s and returns it to the pool. Vectors of another size are
// dropped.
func (p *StatePool) Put(s State) {
	if len(s) != p.size {
		return
	}
	clear(s)
	p.pool.Put(s)
}
