// Package middleware provides observability for hashnav navigators and the
// browser bridge.
//
// Both constructors return a hashroute.Observer, so they plug into a
// Navigator with hashroute.WithObserver and compose with
// hashroute.MultiObserver.
//
// # Prometheus Metrics
//
//	metrics := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	nav := hashroute.NewNavigator(loc, hashroute.WithObserver(metrics))
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected (default namespace "hashnav"):
//   - hashnav_reads_total, hashnav_writes_total
//   - hashnav_op_duration_seconds{op}
//   - hashnav_fragment_bytes
//   - hashnav_dropped_segments_total, hashnav_decode_fallbacks_total,
//     hashnav_duplicate_keys_total
//   - hashnav_bridge_sessions, hashnav_bridge_messages_total{direction},
//     hashnav_bridge_errors_total{type}
//   - hashnav_link_ops_total{op,status}, hashnav_link_errors_total{op,error_type}
//
// # OpenTelemetry
//
//	tracing := middleware.OpenTelemetry(middleware.WithTracerName("myapp"))
//	nav := hashroute.NewNavigator(loc, hashroute.WithObserver(
//	    hashroute.MultiObserver(metrics, tracing),
//	))
//
// Every read and write becomes a span ("hashnav.read", "hashnav.write") timed
// from the event's Start and Duration. The tracer comes from the global
// provider unless WithTracerProvider is given.
package middleware
