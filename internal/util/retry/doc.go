// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable attempts,
// initial delay, and maximum delay. It is used when publishing outputs to
// object storage, where throttling and brief outages are expected.
package retry
