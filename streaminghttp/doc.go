// Package streaminghttp implements the fixture gateway's HTTP surface. It
// mounts as a standard net/http handler and serves per-subject financial
// fixture data either as one-shot JSON responses or as long-lived
// Server-Sent-Event streams that re-read the fixture on a fixed interval.
//
// Responsibilities
//   - Authentication gate on every protected route (sessionid cookie →
//     sessions.Store lookup, repeated per request, never cached)
//   - One-shot fixture endpoints (GET /api/<resource>)
//   - Streaming fixture endpoints (GET /stream/<resource>), one goroutine,
//     ticker, and cancellation signal per connection
//   - Login surface (GET /mockWebPage, POST /login) feeding the session store
//   - Health and Prometheus exposition endpoints
//
// Construction
//
//	h, err := streaminghttp.New(
//	    memory.NewStore(),        // sessions.Store implementation
//	    fsdir.New("test_data_dir"), // fixtures.Provider implementation
//	    streaminghttp.WithLogger(log),
//	)
//
// # Stream Lifecycle
//
// A stream handler writes the event-stream headers immediately, arms a ticker
// at the resource's interval, and then blocks on whichever fires first: the
// tick or the connection's context. On a tick it re-reads the fixture and
// emits one event frame; a failed read skips the tick and the stream stays
// open. Disconnection wins a simultaneous tick: the loop re-checks the
// context after every tick before touching storage or the wire. There is no
// cap on concurrent streams and no maximum stream lifetime.
//
// # Error Handling
//
// Authentication failures are fail-fast 401s with a short JSON body. One-shot
// read failures are terminal 500s for that request. Read failures inside a
// stream are isolated per tick. A transport without http.Flusher gets a 500
// before any event is sent. No failure in this package is fatal to the
// process.
//
// Example (mount in net/http):
//
//	srv := &http.Server{Addr: ":8080", Handler: h}
//	srv.ListenAndServe()
package streaminghttp
