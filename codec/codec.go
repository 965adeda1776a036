// Package codec provides the payload codecs used by transports to turn
// response bodies into cache payloads (and back, for request bodies).
//
// For the common case of schemaless API payloads, instantiate a codec with
// V = any: Decode then produces map[string]any / []any shapes that response
// transformers can walk.
package codec

// Codec (de)serializes values V <-> []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Bytes is an identity codec for raw byte payloads. Useful when the consumer
// wants the response body untouched.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String converts between string payloads and bytes. Assumes UTF-8 by
// convention; no validation is performed.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
