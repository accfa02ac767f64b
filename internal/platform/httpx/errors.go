package httpx

import (
	"net/http"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

// WriteResult renders a workflow outcome. Successful results carry their payload (none for
// NO_CONTENT); failed results become {"error": message} with the mapped status.
func WriteResult[T any](w http.ResponseWriter, res shared.Result[T]) {
	status := res.Status.HTTPStatus()
	switch {
	case res.Status == shared.StatusNoContent:
		w.WriteHeader(status)
	case res.Succeeded():
		JSON(w, status, res.Data)
	default:
		Error(w, status, res.Message)
	}
}

// RespondError maps an unexpected workflow error to 400 with the error text.
func RespondError(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, err.Error())
}
