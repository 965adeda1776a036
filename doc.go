// Package httpdata implements the client-side request/response cache that
// sits between consumers and a remote API: a keyed point-cache with a
// four-state entry machine, a freshness-based refetch policy, deduplication
// of concurrent requests for the same key, and a dispatch gate that buffers
// outbound work during application startup.
//
// Components:
//   - Store: unbounded map from request key to Entry, plus a mutation tick
//     downstream observers can watch instead of inspecting entries.
//   - Coordinator: decides whether a key needs a fresh fetch, marks the
//     entry pending before any asynchronous work, and applies completions.
//   - Gate: two-phase dispatch gate; buffers actions until Activate wires
//     the real dispatcher, then forwards synchronously.
//   - Transform: optional pure function expanding one raw payload into
//     extra (key, value) pairs merged alongside the requesting key.
//
// Typical flow:
//
//	store := httpdata.NewStore(httpdata.StoreOptions{})
//	gate := httpdata.NewGate(httpdata.GateOptions{})
//	coord, _ := httpdata.New(httpdata.Options{Store: store, Gate: gate})
//
//	entry := coord.RequestData("site-14", httpdata.Fetch(req), httpdata.RequestOptions{
//		Freshness: time.Minute,
//	})
//	// ... later, once the transport is wired up:
//	_ = gate.Activate(client.Dispatch)
//	// ... completion arrives, store updates, tick advances:
//	entry = coord.GetEntry("site-14")
//
// Fetch errors never surface through RequestData; they land in the entry's
// Err field for consumers to render.
package httpdata
