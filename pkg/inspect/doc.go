// Package inspect exposes registered stores to devtools clients over HTTP.
//
// A Registry names the stores an application chooses to expose; a Server
// serves JSON snapshots of them and streams write events over a WebSocket
// so a devtools UI can follow state changes live. The inspector observes
// writes through ordinary store subscriptions; it never intercepts or
// replays them.
//
// Usage:
//
//	reg := inspect.NewRegistry()
//	inspect.Register(reg, "app", appStore)
//
//	srv := inspect.NewServer(reg, inspect.Config{})
//	srv.Start()
//	defer srv.Close()
//	go http.ListenAndServe("127.0.0.1:7811", srv.Router())
//
// Routes:
//   - GET /stores           list registered stores with current snapshots
//   - GET /stores/{name}    snapshot of one store
//   - GET /ws               WebSocket stream of write events
package inspect
