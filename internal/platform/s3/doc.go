// Package s3 publishes composition outputs to S3 so tooling outside the
// provisioning unit can read them.
//
// Outputs are written as one JSON document per stack under
// <prefix>/<stack>/outputs.json. Throttling and server errors are retried
// with exponential backoff; missing buckets and permission errors are not.
package s3
