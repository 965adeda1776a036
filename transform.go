package httpdata

import "fmt"

// Pair is one (key, value) produced by a response transformer.
type Pair struct {
	Key   string
	Value any
}

// Transform converts a raw API payload into additional pairs to merge into
// the store. It must be pure. An error (or panic) fails the requesting key
// only; pairs from a failed transform are discarded.
type Transform func(payload any) ([]Pair, error)

// TransformFactory produces a fresh Transform per completion. A nil factory
// is the identity pass-through: only the requesting key is updated, with no
// extra pairs.
type TransformFactory func() Transform

// runTransform instantiates the factory and applies it to payload. Panics
// inside the transformer are captured and returned as errors so a bad
// transform can never take down the completion path.
func runTransform(factory TransformFactory, payload any) (pairs []Pair, err error) {
	if factory == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			pairs = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return factory()(payload)
}
