package clients

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesbook/internal/platform/httpx"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, newTestService(repo), httpx.NewValidator())
	r := chi.NewRouter()
	r.Route("/clients", h.MountRoutes)
	return r
}

const validClientBody = `{
	"name": "Maria Silva",
	"email": "maria@example.com",
	"cpf": "123.456.789-00",
	"street": "Av. Paulista",
	"number": "1000",
	"neighborhood": "Bela Vista",
	"cep": "01310-100",
	"city": "São Paulo",
	"uf": "sp",
	"phone": "(11) 98765-4321"
}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateClient(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rr := do(t, router, http.MethodPost, "/clients", validClientBody)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/clients/1", rr.Header().Get("Location"))
	assert.JSONEq(t, `{"id":1,"name":"Maria Silva","email":"maria@example.com","cpf":"123.456.789-00","addressId":101,"phone":"(11) 98765-4321"}`, rr.Body.String())

	rr = do(t, router, http.MethodPost, "/clients", validClientBody)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"CPF already registered"}`, rr.Body.String())
}

func TestHandlerCreateClientValidation(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	body := strings.Replace(validClientBody, `"123.456.789-00"`, `"12345678900"`, 1)
	rr := do(t, router, http.MethodPost, "/clients", body)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var payload httpx.ValidationBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Contains(t, payload.Errors, "cpf")

	rr = do(t, router, http.MethodPost, "/clients", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerShowClient(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	do(t, router, http.MethodPost, "/clients", validClientBody)

	rr := do(t, router, http.MethodGet, "/clients/1?month=3&year=2024", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var detail ClientDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "01310-100", detail.Address.CEP)
	assert.Empty(t, detail.Sales)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/clients/1?month=13", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/clients/1?year=abc", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, router, http.MethodGet, "/clients/abc", "").Code)

	rr = do(t, router, http.MethodGet, "/clients/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Client not found"}`, rr.Body.String())
}

func TestHandlerUpdateClient(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	do(t, router, http.MethodPost, "/clients", validClientBody)

	rr := do(t, router, http.MethodPut, "/clients/1", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, router, http.MethodPut, "/clients/1", `{"phone":"11987654321"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, router, http.MethodPut, "/clients/1", `{"name":"Maria S."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var view ClientView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "Maria S.", view.Name)
}

func TestHandlerDeleteClient(t *testing.T) {
	router := newTestRouter(newMemoryRepo())
	do(t, router, http.MethodPost, "/clients", validClientBody)

	rr := do(t, router, http.MethodDelete, "/clients/1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = do(t, router, http.MethodDelete, "/clients/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerListClients(t *testing.T) {
	router := newTestRouter(newMemoryRepo())

	rr := do(t, router, http.MethodGet, "/clients", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	do(t, router, http.MethodPost, "/clients", validClientBody)
	rr = do(t, router, http.MethodGet, "/clients", "")
	var views []ClientView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}
