package goksori

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is returned when a request could not be completed or the
// backend answered with a non-success status.
type NetworkError struct {
	Op     string // e.g. "list stocks"
	Status int    // 0 when the request never got a response
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError is returned when a response body is not the expected JSON.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// userMessages maps an operation to the text shown to the user on failure.
var userMessages = map[string]string{
	opListStocks: "종목 데이터 로딩 실패",
	opGetStock:   "종목 상세 로딩 실패",
	opGetShare:   "공유 데이터 로딩 실패",
	opGetHistory: "히스토리 로딩 실패",
}

// UserMessage returns the user-visible text for err. Network and parse
// failures are reported the same way.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var op string
	var ne *NetworkError
	var pe *ParseError
	switch {
	case errors.As(err, &ne):
		op = ne.Op
	case errors.As(err, &pe):
		op = pe.Op
	default:
		return err.Error()
	}
	if msg, ok := userMessages[op]; ok {
		return msg
	}
	return err.Error()
}
