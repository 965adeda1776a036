package httpdata

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type testRig struct {
	coord *Coordinator
	store *Store
	disp  *capture
	clock *fakeClock
	hooks *recordHooks
	log   *recordLogger
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	r := &testRig{
		disp:  &capture{},
		clock: newFakeClock(),
		hooks: &recordHooks{},
		log:   &recordLogger{},
	}
	r.store = NewStore(StoreOptions{Clock: r.clock.Now})
	gate := NewGate(GateOptions{})
	if err := gate.Activate(r.disp.dispatch); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	coord, err := New(Options{
		Store:  r.store,
		Gate:   gate,
		Clock:  r.clock.Now,
		Hooks:  r.hooks,
		Logger: r.log,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.coord = coord
	return r
}

func siteSpec() Spec {
	return Fetch(Request{Method: "GET", URL: "https://public-api.example/sites/14"})
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := New(Options{Gate: NewGate(GateOptions{})}); err == nil {
		t.Fatalf("New without store must fail")
	}
	if _, err := New(Options{Store: NewStore(StoreOptions{})}); err == nil {
		t.Fatalf("New without gate must fail")
	}
}

// Scenario: first request on an empty store marks the key pending and emits
// exactly one fetch instruction.
func TestRequestDataIssuesFetch(t *testing.T) {
	r := newTestRig(t)

	got := r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	if got.State != Uninitialized {
		t.Fatalf("returned snapshot = %v, want the pre-issue Uninitialized entry", got.State)
	}

	e := r.store.Get("site-14")
	if e.State != Pending {
		t.Fatalf("entry = %v, want Pending", e.State)
	}
	if !e.PendingSince.Equal(r.clock.Now()) {
		t.Fatalf("PendingSince not stamped")
	}

	ins := r.disp.requests()
	if len(ins) != 1 {
		t.Fatalf("issued %d instructions, want 1", len(ins))
	}
	if ins[0].Key != "site-14" || ins[0].Request.URL != "https://public-api.example/sites/14" {
		t.Fatalf("instruction = %+v", ins[0])
	}
}

// A pending entry is never superseded: re-requesting the same key before
// completion must not produce a second instruction.
func TestRequestDataDeduplicates(t *testing.T) {
	r := newTestRig(t)

	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	got := r.coord.RequestData("site-14", siteSpec(), RequestOptions{})

	if got.State != Pending {
		t.Fatalf("second call should observe Pending, got %v", got.State)
	}
	if n := len(r.disp.requests()); n != 1 {
		t.Fatalf("issued %d instructions, want 1", n)
	}
	if len(r.hooks.deduped) != 1 || r.hooks.deduped[0] != "site-14" {
		t.Fatalf("deduped hook = %v", r.hooks.deduped)
	}
}

func TestFreshnessWindow(t *testing.T) {
	r := newTestRig(t)
	opts := RequestOptions{Freshness: time.Second}

	r.coord.RequestData("site-14", siteSpec(), opts)
	r.disp.requests()[0].Succeed("payload")

	r.clock.Advance(999 * time.Millisecond)
	r.coord.RequestData("site-14", siteSpec(), opts)
	if n := len(r.disp.requests()); n != 1 {
		t.Fatalf("entry still fresh at 999ms, but %d instructions issued", n)
	}

	r.clock.Advance(2 * time.Millisecond)
	r.coord.RequestData("site-14", siteSpec(), opts)
	if n := len(r.disp.requests()); n != 2 {
		t.Fatalf("entry stale at 1001ms, want refetch, got %d instructions", n)
	}
}

// Default freshness is unbounded: a key that has succeeded once is never
// refetched.
func TestUnboundedFreshnessNeverRefetches(t *testing.T) {
	r := newTestRig(t)

	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	r.disp.requests()[0].Succeed("payload")

	r.clock.Advance(24 * time.Hour * 365)
	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	if n := len(r.disp.requests()); n != 1 {
		t.Fatalf("unbounded freshness refetched: %d instructions", n)
	}
}

// A failure permits an immediate re-issue (subject to freshness): the caller
// retries by simply calling RequestData again.
func TestFailurePermitsRetry(t *testing.T) {
	r := newTestRig(t)
	opts := RequestOptions{Freshness: time.Second}

	r.coord.RequestData("site-14", siteSpec(), opts)
	r.disp.requests()[0].Fail(errors.New("network down"))

	r.coord.RequestData("site-14", siteSpec(), opts)
	if n := len(r.disp.requests()); n != 2 {
		t.Fatalf("failed entry must be refetchable, got %d instructions", n)
	}
}

// Scenario: success with no transformer updates only the requesting key and
// emits one tick.
func TestSucceedWithoutTransformer(t *testing.T) {
	r := newTestRig(t)

	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	payload := map[string]any{"name": "foo"}
	r.disp.requests()[0].Succeed(payload)

	e := r.store.Get("site-14")
	if e.State != Success {
		t.Fatalf("entry = %v, want Success", e.State)
	}
	if m, ok := e.Data.(map[string]any); !ok || m["name"] != "foo" {
		t.Fatalf("data = %v", e.Data)
	}
	if r.store.Tick() != 1 || r.disp.ticks() != 1 {
		t.Fatalf("tick = %d, dispatched ticks = %d, want 1/1", r.store.Tick(), r.disp.ticks())
	}
	if r.store.Len() != 1 {
		t.Fatalf("no extra keys expected, Len=%d", r.store.Len())
	}
}

// Scenario: a transformer fans one payload out into extra keyed values; the
// requesting key keeps the raw payload and the tick advances once for the
// whole completion, not once per pair.
func TestSucceedWithTransformerPairs(t *testing.T) {
	r := newTestRig(t)

	transform := func() Transform {
		return func(payload any) ([]Pair, error) {
			sites := payload.(map[string]any)["sites"].(map[string]map[string]string)
			return []Pair{
				{Key: "site-names-14", Value: sites["14"]["name"]},
				{Key: "site-names-19", Value: sites["19"]["name"]},
			}, nil
		}
	}

	r.coord.RequestData("site-names", siteSpec(), RequestOptions{Transform: transform})

	payload := map[string]any{
		"sites": map[string]map[string]string{
			"14": {"name": "foo"},
			"19": {"name": "bar"},
		},
	}
	r.disp.requests()[0].Succeed(payload)

	if e := r.store.Get("site-names-14"); e.State != Success || e.Data != "foo" {
		t.Fatalf("site-names-14 = %+v, want Success foo", e)
	}
	if e := r.store.Get("site-names-19"); e.State != Success || e.Data != "bar" {
		t.Fatalf("site-names-19 = %+v, want Success bar", e)
	}
	if e := r.store.Get("site-names"); e.State != Success {
		t.Fatalf("requesting key must hold the raw payload, got %+v", e)
	}
	if r.store.Tick() != 1 {
		t.Fatalf("tick = %d, want exactly 1 per completion", r.store.Tick())
	}
}

// Scenario: failure records the error and preserves the last known good data.
func TestFailPreservesPreviousData(t *testing.T) {
	r := newTestRig(t)
	opts := RequestOptions{Freshness: time.Second}

	r.coord.RequestData("site-14", siteSpec(), opts)
	r.disp.requests()[0].Succeed("good")

	r.clock.Advance(2 * time.Second)
	r.coord.RequestData("site-14", siteSpec(), opts)
	r.disp.requests()[1].Fail(errors.New("network down"))

	e := r.store.Get("site-14")
	if e.State != Failure {
		t.Fatalf("entry = %v, want Failure", e.State)
	}
	if e.Err == nil || e.Err.Error() != "network down" {
		t.Fatalf("Err = %v", e.Err)
	}
	if e.Data != "good" {
		t.Fatalf("failure must preserve previous data, got %v", e.Data)
	}
	if r.store.Tick() != 2 {
		t.Fatalf("tick = %d, want 2 (one per completion)", r.store.Tick())
	}
}

func TestTransformErrorFailsRequestingKey(t *testing.T) {
	r := newTestRig(t)

	transform := func() Transform {
		return func(any) ([]Pair, error) {
			return []Pair{{Key: "should-not-exist", Value: 1}}, fmt.Errorf("bad shape")
		}
	}
	r.coord.RequestData("site-14", siteSpec(), RequestOptions{Transform: transform})
	r.disp.requests()[0].Succeed("payload")

	e := r.store.Get("site-14")
	if e.State != Failure {
		t.Fatalf("entry = %v, want Failure", e.State)
	}
	var terr *TransformError
	if !errors.As(e.Err, &terr) || terr.Key != "site-14" {
		t.Fatalf("Err = %v, want TransformError for site-14", e.Err)
	}
	if got := r.store.Get("should-not-exist"); got.State != Uninitialized {
		t.Fatalf("pairs from a failed transform must be discarded")
	}
	if len(r.hooks.failed) != 1 {
		t.Fatalf("TransformFailed hook = %v", r.hooks.failed)
	}
	if r.store.Tick() != 1 {
		t.Fatalf("failed completion must still tick once, got %d", r.store.Tick())
	}
}

func TestTransformPanicIsCaptured(t *testing.T) {
	r := newTestRig(t)

	transform := func() Transform {
		return func(any) ([]Pair, error) { panic("boom") }
	}
	r.coord.RequestData("site-14", siteSpec(), RequestOptions{Transform: transform})
	r.disp.requests()[0].Succeed("payload")

	e := r.store.Get("site-14")
	if e.State != Failure || e.Err == nil {
		t.Fatalf("panicking transform must fail the key, got %+v", e)
	}
}

func TestDuplicateCompletionDropped(t *testing.T) {
	r := newTestRig(t)

	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	in := r.disp.requests()[0]
	in.Succeed("first")
	in.Succeed("second")
	in.Fail(errors.New("late"))

	e := r.store.Get("site-14")
	if e.State != Success || e.Data != "first" {
		t.Fatalf("late completions must be dropped, entry = %+v", e)
	}
	if r.store.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", r.store.Tick())
	}
	if len(r.log.warns) == 0 {
		t.Fatalf("duplicate completion should be logged")
	}
}

func TestProgressHasNoStateTransition(t *testing.T) {
	r := newTestRig(t)

	r.coord.RequestData("site-14", siteSpec(), RequestOptions{})
	in := r.disp.requests()[0]
	in.Progress(512)

	if e := r.store.Get("site-14"); e.State != Pending {
		t.Fatalf("progress must not transition state, got %v", e.State)
	}
	if r.store.Tick() != 0 {
		t.Fatalf("progress must not tick")
	}
}

// A lazy fetch spec is only resolved when a fetch is actually issued.
func TestLazySpecResolvedOnlyOnIssue(t *testing.T) {
	r := newTestRig(t)

	calls := 0
	spec := FetchFunc(func() Request {
		calls++
		return Request{Method: "GET", URL: "https://public-api.example/lazy"}
	})

	r.coord.RequestData("lazy", spec, RequestOptions{})
	r.coord.RequestData("lazy", spec, RequestOptions{}) // deduped

	if calls != 1 {
		t.Fatalf("spec factory called %d times, want 1", calls)
	}
	if got := r.disp.requests()[0].Request.URL; got != "https://public-api.example/lazy" {
		t.Fatalf("resolved request URL = %q", got)
	}
}

// The full startup path: fetches issued before the dispatcher exists are
// buffered by the gate and flow through after activation.
func TestStartupBufferingEndToEnd(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(StoreOptions{Clock: clock.Now})
	gate := NewGate(GateOptions{})
	coord, err := New(Options{Store: store, Gate: gate, Clock: clock.Now})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	coord.RequestData("early", siteSpec(), RequestOptions{})
	if store.Get("early").State != Pending {
		t.Fatalf("pending transition must happen before the gate, even while buffering")
	}
	if gate.Pending() != 1 {
		t.Fatalf("instruction not buffered")
	}

	d := &capture{}
	if err := gate.Activate(d.dispatch); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	ins := d.requests()
	if len(ins) != 1 {
		t.Fatalf("buffered instruction not flushed")
	}

	ins[0].Succeed("late-bound")
	if e := store.Get("early"); e.State != Success || e.Data != "late-bound" {
		t.Fatalf("entry = %+v", e)
	}
}

func TestGetEntryIsPureRead(t *testing.T) {
	r := newTestRig(t)

	if e := r.coord.GetEntry("absent"); e.State != Uninitialized {
		t.Fatalf("GetEntry(absent) = %v", e.State)
	}
	if n := len(r.disp.actions); n != 0 {
		t.Fatalf("GetEntry must not schedule work, dispatched %d actions", n)
	}
}
