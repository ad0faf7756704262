package llmapi

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind discriminates the failure categories a dispatch call can end in.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindRateLimit
	KindAuth
	KindClient
	KindServer
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRateLimit:
		return "rate_limit"
	case KindAuth:
		return "auth"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// APIError is the classified failure of a dispatch call.
// Status is zero for network and malformed-response failures.
// RetryAfter is set only for rate-limit failures when the server named a time.
type APIError struct {
	Kind       ErrorKind
	Status     int
	Message    string
	RetryAfter *time.Time
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("llm api %s error [%d]: %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("llm api %s error: %s", e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("llm api %s error [%d]", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("llm api %s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("llm api %s error", e.Kind)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func IsNetwork(err error) bool    { return IsKind(err, KindNetwork) }
func IsRateLimit(err error) bool  { return IsKind(err, KindRateLimit) }
func IsAuth(err error) bool       { return IsKind(err, KindAuth) }
func IsClient(err error) bool     { return IsKind(err, KindClient) }
func IsServer(err error) bool     { return IsKind(err, KindServer) }
func IsMalformed(err error) bool  { return IsKind(err, KindMalformed) }
