package httpdata

import (
	"net/http"
	"sync/atomic"
)

// ActionKind tags the closed set of actions exchanged with the surrounding
// dispatch framework.
type ActionKind uint8

const (
	// KindRequest carries a fetch instruction for the transport.
	KindRequest ActionKind = iota + 1
	// KindTick signals "the cache changed". It carries no payload; the
	// receiving side only increments or reads an integer counter.
	KindTick
)

func (k ActionKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Action is one unit handed to the Dispatcher.
type Action struct {
	Kind        ActionKind
	Instruction *Instruction // set only for KindRequest
}

// Dispatcher is the outbound channel supplied once at Gate.Activate.
type Dispatcher func(Action)

// Request is the transport directive of one outbound fetch.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Spec supplies the Request for a fetch, either eagerly or lazily.
// Use Fetch for a ready request and FetchFunc to defer construction until
// the fetch is actually issued.
type Spec interface {
	request() Request
}

type staticSpec Request

func (s staticSpec) request() Request { return Request(s) }

// Fetch wraps an already-built Request.
func Fetch(r Request) Spec { return staticSpec(r) }

type lazySpec func() Request

func (f lazySpec) request() Request { return f() }

// FetchFunc defers building the Request; f runs only when a fetch is issued.
func FetchFunc(f func() Request) Spec { return lazySpec(f) }

// Instruction describes one outbound request plus the continuations routing
// its completion back into the store. The transport consumes it exactly
// once; it does not outlive the request it describes.
type Instruction struct {
	Key     string
	Request Request

	transform TransformFactory
	coord     *Coordinator
	done      atomic.Bool
}

// Succeed applies a successful completion: the transformer (if any) runs
// over payload, the requesting key and every produced pair transition to
// success, and the mutation tick advances once.
func (in *Instruction) Succeed(payload any) {
	if !in.done.CompareAndSwap(false, true) {
		in.coord.duplicate(in.Key)
		return
	}
	in.coord.succeed(in, payload)
}

// Fail records err on the requesting key. No other key is touched.
func (in *Instruction) Fail(err error) {
	if !in.done.CompareAndSwap(false, true) {
		in.coord.duplicate(in.Key)
		return
	}
	in.coord.fail(in, err)
}

// Progress reports transfer progress. No state transition is defined; the
// event is passed through for observability only.
func (in *Instruction) Progress(info any) {
	in.coord.progress(in, info)
}
