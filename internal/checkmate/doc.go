// Package checkmate provides an HTTP client for the CheckMate classification API.
//
// # Overview
//
// The client is a stateless façade over the two operations the backend
// exposes. It builds requests, decodes responses, and normalizes every failure
// into an *APIError so callers never handle raw transport errors.
//
// # API Endpoints
//
//   - POST /predict: classify a headline ({"headline": "..."})
//   - GET /: health probe ({"status": "ok", "note": "..."})
//
// # Client Usage
//
//	client, err := checkmate.NewClient("http://localhost:8000")
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.Predict(ctx, checkmate.PredictionRequest{Headline: h})
//	if err != nil {
//		apiErr := checkmate.AsAPIError(err)
//		fmt.Println(apiErr.Detail)
//	}
//
// # Error Normalization
//
// Every error returned by Predict and HealthCheck is an *APIError:
//
//   - KindTransport: connection refused, DNS failure, timeout, cancellation.
//     Detail is the underlying error message.
//   - KindProtocol: non-2xx status. For /predict, Detail is the body's
//     "detail" string when present, otherwise "HTTP error! status: <code>".
//     For the health probe it is always "Health check failed: <code>".
//   - KindDecode: a 2xx response whose body is not the expected JSON.
//
// # Policy
//
// The client performs exactly one network call per invocation. It does not
// retry and does not set an http.Client timeout; the submission controller and
// the availability poller apply their own policies through ctx. Responses are
// passed through unmodified, probabilities are never renormalized.
//
// Each request carries an X-Request-ID header. Callers can pin the ID with
// WithRequestID so that a retry shares its submission's ID; otherwise a fresh
// UUID is generated per call.
package checkmate
