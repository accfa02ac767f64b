package clients

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

// ============================================================================
// IN-MEMORY REPOSITORY
// ============================================================================

type memoryRepo struct {
	mu        sync.Mutex
	clients   map[int64]Client
	addresses map[int64]Address
	phones    map[int64]Phone
	sales     map[int64][]Sale
	nextID    int64

	createPhoneErr error
	createErr      error
	zeroID         bool
	updates        map[string]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		clients:   map[int64]Client{},
		addresses: map[int64]Address{},
		phones:    map[int64]Phone{},
		sales:     map[int64][]Sale{},
		nextID:    1,
		updates:   map[string]int{},
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.mu.Lock()
	clients := copyMap(m.clients)
	addresses := copyMap(m.addresses)
	phones := copyMap(m.phones)
	m.mu.Unlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.clients, m.addresses, m.phones = clients, addresses, phones
		m.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memoryRepo) Get(ctx context.Context, id int64) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memoryRepo) findBy(match func(Client) bool) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if match(c) {
			c := c
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) GetByCPF(ctx context.Context, cpf string) (*Client, error) {
	return m.findBy(func(c Client) bool { return c.CPF == cpf })
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*Client, error) {
	return m.findBy(func(c Client) bool { return c.Email == email })
}

func (m *memoryRepo) List(ctx context.Context) ([]Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Listing
	for id, c := range m.clients {
		out = append(out, Listing{Client: c, AddressID: m.addresses[id].ID, Phone: m.phones[id].Number})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) Create(ctx context.Context, client Client) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.zeroID {
		return 0, nil
	}
	client.ID = m.nextID
	m.nextID++
	m.clients[client.ID] = client
	return client.ID, nil
}

func (m *memoryRepo) CreateAddress(ctx context.Context, a Address) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = a.ClientID + 100
	m.addresses[a.ClientID] = a
	return a.ID, nil
}

func (m *memoryRepo) CreatePhone(ctx context.Context, p Phone) (int64, error) {
	if m.createPhoneErr != nil {
		return 0, m.createPhoneErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = p.ClientID + 200
	m.phones[p.ClientID] = p
	return p.ID, nil
}

func (m *memoryRepo) GetAddress(ctx context.Context, clientID int64) (*Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.addresses[clientID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (m *memoryRepo) GetPhone(ctx context.Context, clientID int64) (*Phone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.phones[clientID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *memoryRepo) ListSales(ctx context.Context, clientID int64) ([]Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sale(nil), m.sales[clientID]...), nil
}

func (m *memoryRepo) Update(ctx context.Context, c Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates["client"]++
	m.clients[c.ID] = c
	return nil
}

func (m *memoryRepo) UpdateAddress(ctx context.Context, a Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates["address"]++
	m.addresses[a.ClientID] = a
	return nil
}

func (m *memoryRepo) UpdatePhone(ctx context.Context, p Phone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates["phone"]++
	m.phones[p.ClientID] = p
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.clients, id)
	delete(m.addresses, id)
	delete(m.phones, id)
	delete(m.sales, id)
	return nil
}

type countingRecorder struct{ created int }

func (c *countingRecorder) ClientCreated() { c.created++ }

// ============================================================================
// HELPERS
// ============================================================================

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil, nil)
	svc.loc = time.UTC
	return svc
}

func createRequest() CreateClientRequest {
	return CreateClientRequest{
		Name:         "Maria Silva",
		Email:        "maria@example.com",
		CPF:          "123.456.789-00",
		Street:       "Av. Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		CEP:          "01310-100",
		City:         "São Paulo",
		UF:           "sp",
		Phone:        "(11) 98765-4321",
	}
}

func mustCreate(t *testing.T, svc *Service, req CreateClientRequest) ClientView {
	t.Helper()
	res, err := svc.CreateClient(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, shared.StatusCreated, res.Status, res.Message)
	return res.Data
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ============================================================================
// CREATE
// ============================================================================

func TestCreateClientStoresCanonicalValues(t *testing.T) {
	repo := newMemoryRepo()
	metrics := &countingRecorder{}
	svc := NewService(repo, nil, metrics)

	view := mustCreate(t, svc, createRequest())

	assert.Equal(t, "123.456.789-00", view.CPF)
	assert.Equal(t, "(11) 98765-4321", view.Phone)
	assert.Equal(t, repo.addresses[view.ID].ID, view.AddressID)
	assert.Equal(t, 1, metrics.created)

	stored := repo.clients[view.ID]
	assert.Equal(t, "12345678900", stored.CPF)

	address := repo.addresses[view.ID]
	assert.Equal(t, view.ID, address.ClientID)
	assert.Equal(t, "01310100", address.CEP)
	assert.Equal(t, "SP", address.UF)
	assert.Equal(t, "", address.Complement)

	phone := repo.phones[view.ID]
	assert.Equal(t, view.ID, phone.ClientID)
	assert.Equal(t, "11987654321", phone.Number)
}

func TestCreateClientConflicts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateClientRequest)
		message string
	}{
		{"duplicate cpf", func(r *CreateClientRequest) { r.Email = "other@example.com" }, "CPF already registered"},
		{"duplicate email", func(r *CreateClientRequest) { r.CPF = "987.654.321-09" }, "Email already registered"},
		{"both duplicated", func(r *CreateClientRequest) {}, "CPF already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo()
			svc := newTestService(repo)
			mustCreate(t, svc, createRequest())

			req := createRequest()
			tt.mutate(&req)
			res, err := svc.CreateClient(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, shared.StatusConflict, res.Status)
			assert.Equal(t, tt.message, res.Message)
			assert.Len(t, repo.clients, 1)
		})
	}
}

func TestCreateClientRollsBackOnPhoneFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.createPhoneErr = errors.New("phone insert failed")
	svc := newTestService(repo)

	_, err := svc.CreateClient(context.Background(), createRequest())

	require.Error(t, err)
	assert.Empty(t, repo.clients)
	assert.Empty(t, repo.addresses)
	assert.Empty(t, repo.phones)
}

func TestCreateClientMapsStorageUniqueViolation(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = db.Translate(&pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"})
	svc := newTestService(repo)

	res, err := svc.CreateClient(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, shared.StatusConflict, res.Status)
	assert.Equal(t, "Email already registered", res.Message)
}

func TestCreateClientWithoutGeneratedID(t *testing.T) {
	repo := newMemoryRepo()
	repo.zeroID = true
	svc := newTestService(repo)

	res, err := svc.CreateClient(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, shared.StatusInternalError, res.Status)
	assert.Equal(t, "Error creating client", res.Message)
}

// ============================================================================
// READ
// ============================================================================

func TestListClientsAscendingByID(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	first := mustCreate(t, svc, createRequest())
	second := createRequest()
	second.CPF = "987.654.321-09"
	second.Email = "joao@example.com"
	second.Phone = "(21) 3456-7890"
	created := mustCreate(t, svc, second)

	res, err := svc.ListClients(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, first.ID, res.Data[0].ID)
	assert.Equal(t, created.ID, res.Data[1].ID)
	assert.Equal(t, "(21) 3456-7890", res.Data[1].Phone)
}

func TestGetClientNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	res, err := svc.GetClient(context.Background(), 99, SaleFilter{})

	require.NoError(t, err)
	assert.Equal(t, shared.StatusNotFound, res.Status)
	assert.Equal(t, "Client not found", res.Message)
}

func TestGetClientFiltersSalesByMonthAndYear(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := mustCreate(t, svc, createRequest())

	price := decimal.RequireFromString("10.00")
	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	repo.sales[view.ID] = []Sale{
		{ID: 1, ProductID: 1, Quantity: 1, UnitPrice: price, TotalPrice: price, CreatedAt: at(2024, time.March, 2)},
		{ID: 2, ProductID: 1, Quantity: 1, UnitPrice: price, TotalPrice: price, CreatedAt: at(2024, time.April, 2)},
		{ID: 3, ProductID: 1, Quantity: 1, UnitPrice: price, TotalPrice: price, CreatedAt: at(2024, time.March, 20)},
		{ID: 4, ProductID: 1, Quantity: 1, UnitPrice: price, TotalPrice: price, CreatedAt: at(2023, time.March, 25)},
	}

	res, err := svc.GetClient(context.Background(), view.ID, SaleFilter{Month: intPtr(3), Year: intPtr(2024)})
	require.NoError(t, err)
	require.Equal(t, shared.StatusOK, res.Status)
	require.Len(t, res.Data.Sales, 2)
	assert.Equal(t, int64(3), res.Data.Sales[0].ID)
	assert.Equal(t, int64(1), res.Data.Sales[1].ID)
	assert.Equal(t, "20/03/2024 10:00:00", res.Data.Sales[0].CreatedAt)
	assert.Equal(t, "01310-100", res.Data.Address.CEP)
	assert.Equal(t, "SP", res.Data.Address.UF)

	res, err = svc.GetClient(context.Background(), view.ID, SaleFilter{Month: intPtr(3)})
	require.NoError(t, err)
	require.Len(t, res.Data.Sales, 3)
	assert.Equal(t, int64(4), res.Data.Sales[2].ID)

	res, err = svc.GetClient(context.Background(), view.ID, SaleFilter{})
	require.NoError(t, err)
	require.Len(t, res.Data.Sales, 4)
	assert.Equal(t, int64(2), res.Data.Sales[0].ID)
}

// ============================================================================
// UPDATE / DELETE
// ============================================================================

func TestUpdateClientNameOnlyLeavesContactsUntouched(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := mustCreate(t, svc, createRequest())
	addressBefore := repo.addresses[view.ID]
	phoneBefore := repo.phones[view.ID]

	res, err := svc.UpdateClient(context.Background(), view.ID, UpdateClientRequest{Name: strPtr("Maria S.")})

	require.NoError(t, err)
	require.Equal(t, shared.StatusOK, res.Status)
	assert.Equal(t, "Maria S.", res.Data.Name)
	assert.Equal(t, 1, repo.updates["client"])
	assert.Zero(t, repo.updates["address"])
	assert.Zero(t, repo.updates["phone"])
	assert.Equal(t, addressBefore, repo.addresses[view.ID])
	assert.Equal(t, phoneBefore, repo.phones[view.ID])
}

func TestUpdateClientRoutesFieldsToOwningEntities(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := mustCreate(t, svc, createRequest())

	res, err := svc.UpdateClient(context.Background(), view.ID, UpdateClientRequest{
		CEP:   strPtr("70040-010"),
		UF:    strPtr("df"),
		Phone: strPtr("(61) 3333-4444"),
	})

	require.NoError(t, err)
	require.Equal(t, shared.StatusOK, res.Status)
	assert.Equal(t, "(61) 3333-4444", res.Data.Phone)
	assert.Zero(t, repo.updates["client"])
	assert.Equal(t, "70040010", repo.addresses[view.ID].CEP)
	assert.Equal(t, "DF", repo.addresses[view.ID].UF)
	assert.Equal(t, "Av. Paulista", repo.addresses[view.ID].Street)
	assert.Equal(t, "6133334444", repo.phones[view.ID].Number)
}

func TestUpdateClientConflicts(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	first := mustCreate(t, svc, createRequest())
	other := createRequest()
	other.CPF = "987.654.321-09"
	other.Email = "joao@example.com"
	second := mustCreate(t, svc, other)

	res, err := svc.UpdateClient(context.Background(), second.ID, UpdateClientRequest{CPF: strPtr(first.CPF)})
	require.NoError(t, err)
	assert.Equal(t, shared.StatusConflict, res.Status)
	assert.Equal(t, "CPF already registered", res.Message)

	res, err = svc.UpdateClient(context.Background(), second.ID, UpdateClientRequest{Email: strPtr(first.Email)})
	require.NoError(t, err)
	assert.Equal(t, "Email already registered", res.Message)

	res, err = svc.UpdateClient(context.Background(), second.ID, UpdateClientRequest{CPF: strPtr(second.CPF)})
	require.NoError(t, err)
	assert.Equal(t, shared.StatusOK, res.Status)
}

func TestUpdateClientNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	res, err := svc.UpdateClient(context.Background(), 5, UpdateClientRequest{Name: strPtr("x")})

	require.NoError(t, err)
	assert.Equal(t, shared.StatusNotFound, res.Status)
}

func TestDeleteClient(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	view := mustCreate(t, svc, createRequest())

	res, err := svc.DeleteClient(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusNoContent, res.Status)
	assert.Empty(t, repo.clients)
	assert.Empty(t, repo.phones)

	res, err = svc.DeleteClient(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusNotFound, res.Status)
	assert.Equal(t, "Client not found", res.Message)
}

func TestUpdateRequestSplit(t *testing.T) {
	req := UpdateClientRequest{CPF: strPtr("111.222.333-44"), Complement: strPtr("")}
	c, a, p := req.Split()

	assert.Equal(t, "11122233344", *c.CPF)
	assert.False(t, a.empty())
	assert.True(t, p.empty())
	assert.False(t, req.IsEmpty())
	assert.True(t, UpdateClientRequest{}.IsEmpty())
}
