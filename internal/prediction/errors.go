package prediction

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a failure to get a usable answer from the prediction
// service: transport errors, timeouts and non-2xx replies without a
// structured error body. It is the only error the client retries.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("prediction %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("prediction %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is an answer from the prediction service that reports failure
// (success=false) or cannot be read.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return "prediction service: " + e.Message
}

// IsUnavailable reports whether err means the remote path could not answer,
// as opposed to the input being rejected locally.
func IsUnavailable(err error) bool {
	var ne *NetworkError
	var se *ServerError
	return errors.As(err, &ne) || errors.As(err, &se)
}
