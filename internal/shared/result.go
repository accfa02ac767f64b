package shared

import "net/http"

// Status is the outcome kind of a workflow operation.
type Status string

const (
	StatusOK            Status = "OK"
	StatusCreated       Status = "CREATED"
	StatusNoContent     Status = "NO_CONTENT"
	StatusNotFound      Status = "NOT_FOUND"
	StatusConflict      Status = "CONFLICT"
	StatusUnauthorized  Status = "UNAUTHORIZED"
	StatusInternalError Status = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus maps the outcome kind to its HTTP status code.
func (s Status) HTTPStatus() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusCreated:
		return http.StatusCreated
	case StatusNoContent:
		return http.StatusNoContent
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Result pairs an outcome kind with either the payload (success) or a message (failure).
// Expected business conditions travel here; unexpected faults are returned as errors.
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
}

// Succeeded reports whether the result carries a payload-bearing 2xx outcome.
func (r Result[T]) Succeeded() bool {
	return r.Status == StatusOK || r.Status == StatusCreated || r.Status == StatusNoContent
}

// OK wraps data in an OK result.
func OK[T any](data T) Result[T] {
	return Result[T]{Status: StatusOK, Data: data}
}

// Created wraps data in a CREATED result.
func Created[T any](data T) Result[T] {
	return Result[T]{Status: StatusCreated, Data: data}
}

// NoContent returns an empty NO_CONTENT result.
func NoContent[T any]() Result[T] {
	return Result[T]{Status: StatusNoContent}
}

// Fail builds a failed result with a caller-facing message.
func Fail[T any](status Status, message string) Result[T] {
	return Result[T]{Status: status, Message: message}
}
