package checkmate

import (
	"encoding/json"
	"errors"
)

// Kind categorizes transport failures.
type Kind int

const (
	// KindUnknown is an error that did not originate in the client.
	KindUnknown Kind = iota
	// KindTransport covers connection failures, timeouts and cancellation.
	KindTransport
	// KindProtocol is a non-2xx HTTP status.
	KindProtocol
	// KindDecode is a 2xx response whose body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// APIError is the normalized shape of every failure the client returns.
// Detail is the user-facing message.
type APIError struct {
	Kind       Kind
	StatusCode int // zero unless Kind is KindProtocol
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError returns err as an *APIError, wrapping foreign errors with
// KindUnknown. It returns nil for a nil err.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindUnknown, Detail: err.Error(), Err: err}
}

// errorBody is the best-effort failure payload. FastAPI sends a string detail
// for HTTPException and a list for validation failures; only the string form
// is surfaced.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func parseDetail(body []byte) string {
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
