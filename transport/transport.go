// Package transport is a reference implementation of the outbound side of
// the action contract: it executes fetch instructions over HTTP and routes
// completions back through the instruction continuations.
//
// Wire it up once at startup:
//
//	client := transport.New(transport.Options{})
//	if err := gate.Activate(client.Dispatch); err != nil { ... }
package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	httpdata "github.com/championswimmer/wp-calypso"
	"github.com/championswimmer/wp-calypso/codec"
)

// Options tune a Client. The zero value is usable.
type Options struct {
	HTTP  *http.Client     // nil => http.DefaultClient
	Codec codec.Codec[any] // nil => codec.JSON[any]
	Log   httpdata.Logger  // nil => NopLogger
}

// Client executes fetch instructions asynchronously. It never blocks the
// dispatching goroutine and never retries; every outcome is delivered as a
// single completion on the instruction.
type Client struct {
	http  *http.Client
	codec codec.Codec[any]
	log   httpdata.Logger
}

func New(opts Options) *Client {
	c := &Client{http: opts.HTTP, codec: opts.Codec, log: opts.Log}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.codec == nil {
		c.codec = codec.JSON[any]{}
	}
	if c.log == nil {
		c.log = httpdata.NopLogger{}
	}
	return c
}

// Dispatch satisfies httpdata.Dispatcher. Request actions are executed in
// the background; tick actions belong to the surrounding framework and are
// ignored here.
func (c *Client) Dispatch(a httpdata.Action) {
	if a.Kind != httpdata.KindRequest || a.Instruction == nil {
		return
	}
	go c.run(a.Instruction)
}

func (c *Client) run(in *httpdata.Instruction) {
	req, err := buildRequest(in.Request)
	if err != nil {
		in.Fail(err)
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		in.Fail(err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		in.Fail(fmt.Errorf("transport: read body: %w", err))
		return
	}
	in.Progress(len(body))

	if resp.StatusCode >= http.StatusBadRequest {
		in.Fail(&StatusError{Code: resp.StatusCode, Status: resp.Status})
		return
	}

	payload, err := c.codec.Decode(body)
	if err != nil {
		in.Fail(fmt.Errorf("transport: decode body: %w", err))
		return
	}
	c.log.Debug("fetch delivered", httpdata.Fields{"key": in.Key, "bytes": len(body)})
	in.Succeed(payload)
}

func buildRequest(r httpdata.Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequest(method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// StatusError reports a non-2xx/3xx origin response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: origin returned %s", e.Status)
}
