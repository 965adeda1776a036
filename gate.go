package httpdata

import "sync"

// Gate buffers outbound actions until the surrounding dispatch channel is
// wired up, then forwards directly. The state machine is one-way:
// buffering -> forwarding, flipped by Activate exactly once per process.
type Gate struct {
	mu        sync.Mutex
	dispatch  Dispatcher
	buffer    []Action
	activated bool
	warned    bool

	strict bool
	log    Logger
	hooks  Hooks
}

// GateOptions tune a Gate. The zero value is usable.
type GateOptions struct {
	// Strict logs an error-level record the first time an action is
	// buffered before activation, so a startup that never wires the
	// dispatcher is loud in development. Buffering happens in every mode.
	Strict bool

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

func NewGate(opts GateOptions) *Gate {
	return &Gate{
		strict: opts.Strict,
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
}

// Send forwards the action when the gate is activated, otherwise appends it
// to the startup buffer for the one-time FIFO drain in Activate.
func (g *Gate) Send(a Action) {
	g.mu.Lock()
	if !g.activated {
		g.buffer = append(g.buffer, a)
		warn := g.strict && !g.warned
		g.warned = true
		g.mu.Unlock()
		if warn {
			g.log.Error("action buffered before gate activation", Fields{"kind": a.Kind.String()})
		}
		return
	}
	d := g.dispatch
	g.mu.Unlock()
	d(a)
}

// Activate supplies the dispatch function, drains the startup buffer in
// FIFO order, and flips the gate to forwarding. The buffer is discarded
// after the drain and never used again.
//
// Activate must be called exactly once; repeats return ErrGateActivated.
func (g *Gate) Activate(d Dispatcher) error {
	if d == nil {
		return ErrNilDispatcher
	}
	g.mu.Lock()
	if g.activated {
		g.mu.Unlock()
		return ErrGateActivated
	}
	g.activated = true
	g.dispatch = d
	queued := g.buffer
	g.buffer = nil
	g.mu.Unlock()

	for _, a := range queued {
		d(a)
	}
	if len(queued) > 0 {
		g.hooks.QueueFlushed(len(queued))
		g.log.Info("dispatch gate activated, buffer flushed", Fields{"count": len(queued)})
	}
	return nil
}

// Activated reports whether the gate has been wired up.
func (g *Gate) Activated() bool {
	g.mu.Lock()
	a := g.activated
	g.mu.Unlock()
	return a
}

// Pending reports the number of buffered actions awaiting activation.
func (g *Gate) Pending() int {
	g.mu.Lock()
	n := len(g.buffer)
	g.mu.Unlock()
	return n
}
