// Package submission owns the lifecycle of a headline classification request.
//
// A Controller holds at most one in-flight submission. Begin validates the
// headline and moves to Pending synchronously; Resolve performs up to
// MaxAttempts Predict calls and applies the outcome only if no newer
// submission has started in the meantime.
package submission
