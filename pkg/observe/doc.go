// Package observe provides routes.Observer implementations for Prometheus
// and OpenTelemetry.
//
// Attach an observer when building the table:
//
//	table, err := routes.New(defs,
//	    routes.WithObserver(observe.Prometheus(
//	        observe.WithNamespace("myapp"),
//	    )),
//	)
//
// Metrics collected by Prometheus:
//   - routekit_renders_total: URLs produced, by route pattern
//   - routekit_failures_total: failed operations, by op and error kind
//
// Labels never carry rendered URLs or parameter values, only declared
// patterns and error kinds, so cardinality is bounded by the route table.
//
// Use Multi to fan out to several observers.
package observe
