package control

import "sync"

// dispatchPredicate reports whether a complete message should be routed to
// its paired handler.
type dispatchPredicate func(msg string) bool

// dispatchHandler receives a message a predicate matched.
type dispatchHandler func(msg string)

// registration pairs a predicate with the handler it guards.
type registration struct {
	id        uint64
	predicate dispatchPredicate
	handler   dispatchHandler
}

// dispatcher classifies assembled messages and routes them to every
// handler whose predicate matches, in registration order.
// Registration is safe to call from any goroutine (e.g. WatchEvent calls
// arriving while the read loop is mid-dispatch); dispatch itself is only
// ever called from the connection's single read-loop goroutine.
type dispatcher struct {
	mu     sync.Mutex
	regs   []registration
	nextID uint64
}

// register adds a predicate/handler pair and returns a deregistration
// handle.
func (d *dispatcher) register(pred dispatchPredicate, handler dispatchHandler) (deregister func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.regs = append(d.regs, registration{id: id, predicate: pred, handler: handler})
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, r := range d.regs {
			if r.id == id {
				d.regs = append(d.regs[:i], d.regs[i+1:]...)
				return
			}
		}
	}
}

// dispatch evaluates every registration's predicate against msg, in
// registration order, invoking every handler whose predicate matches.
func (d *dispatcher) dispatch(msg string) {
	// Snapshot the slice so a handler deregistering itself (or another
	// registration) mid-dispatch doesn't skip or double-invoke entries.
	d.mu.Lock()
	regs := append([]registration(nil), d.regs...)
	d.mu.Unlock()

	for _, r := range regs {
		if r.predicate(msg) {
			r.handler(msg)
		}
	}
}
