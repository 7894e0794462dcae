// Package shutdown provides graceful shutdown for livewatch.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Cleanup hooks, run in reverse registration order
//   - Timeout-bounded hook execution
//   - Forced exit on a second signal
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(recorder.Stop)
//	if err := h.Wait(); err != nil { ... }
//
// @design DS-0501
package shutdown
