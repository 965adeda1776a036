package httpdata

// Hooks are lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; the coordinator and gate
// call them on hot paths. Wrap with hooks/async for anything slow.
type Hooks interface {
	// A new fetch instruction was issued for key.
	FetchIssued(key string)

	// A request for key was absorbed by an already in-flight fetch.
	FetchDeduped(key string)

	// A completion was applied for key; ok distinguishes success/failure.
	FetchCompleted(key string, ok bool)

	// The response transformer failed; the requesting key was failed.
	TransformFailed(key string, err error)

	// The gate drained its startup buffer (count = flushed actions).
	QueueFlushed(count int)

	// The mutation counter advanced to tick.
	CacheChanged(tick uint64)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) FetchIssued(string)            {}
func (NopHooks) FetchDeduped(string)           {}
func (NopHooks) FetchCompleted(string, bool)   {}
func (NopHooks) TransformFailed(string, error) {}
func (NopHooks) QueueFlushed(int)              {}
func (NopHooks) CacheChanged(uint64)           {}
