// Package async runs independent named tasks concurrently.
//
// The CLI uses it to deliver composition results (manifests, published
// outputs) once the graph has been materialized.
package async
