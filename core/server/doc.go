// Package server wraps http.Server with bind-first startup, graceful shutdown and
// functional options.
//
// Listen opens the socket up front so an address already in use is reported before
// any other component starts. Start serves on that socket (binding first if Listen was
// not called) and Run adapts Start for errgroup:
//
//	srv := server.New("127.0.0.1:8082",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(5*time.Second),
//	)
//	if err := srv.Listen(); err != nil {
//		return err // address in use, permission denied
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//
// # Configuration
//
// Config carries timeouts and optional TLS certificate files. It has mapstructure tags
// for config files and env tags for environment overrides (SERVER_READ_TIMEOUT,
// SERVER_TLS_CERT_FILE and so on). Start from DefaultConfig and layer on top:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.NewFromConfig(addr, cfg, server.WithLogger(log))
//
// # WebSocket
//
// Upgraded connections are hijacked, so Shutdown neither waits for nor closes them.
// Their owners end them; the server only stops accepting new requests.
package server
