package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/salesbook/internal/format"
	"github.com/odyssey-erp/salesbook/internal/platform/db"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

const (
	msgCPFTaken      = "CPF already registered"
	msgEmailTaken    = "Email already registered"
	msgNotFound      = "Client not found"
	msgCreateFailure = "Error creating client"
)

// Recorder counts created clients.
type Recorder interface {
	ClientCreated()
}

type Service struct {
	repo    Repository
	logger  *slog.Logger
	metrics Recorder
	loc     *time.Location
}

func NewService(repo Repository, logger *slog.Logger, metrics Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, metrics: metrics, loc: time.Local}
}

// CreateClient registers a client with its address and phone in one transaction.
func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (shared.Result[ClientView], error) {
	cpf := format.UnformatCPF(req.CPF)
	if taken, err := s.cpfOwner(ctx, cpf); err != nil {
		return shared.Result[ClientView]{}, err
	} else if taken != nil {
		return shared.Fail[ClientView](shared.StatusConflict, msgCPFTaken), nil
	}
	if taken, err := s.emailOwner(ctx, req.Email); err != nil {
		return shared.Result[ClientView]{}, err
	} else if taken != nil {
		return shared.Fail[ClientView](shared.StatusConflict, msgEmailTaken), nil
	}

	client := Client{Name: req.Name, Email: req.Email, CPF: cpf}
	address := Address{
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		CEP:          format.UnformatCEP(req.CEP),
		City:         req.City,
		UF:           format.UpperUF(req.UF),
	}
	if req.Complement != nil {
		address.Complement = *req.Complement
	}
	phone := Phone{Number: format.UnformatPhone(req.Phone)}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, client)
		if err != nil {
			return fmt.Errorf("insert client: %w", err)
		}
		client.ID = id
		address.ClientID = id
		if address.ID, err = repo.CreateAddress(ctx, address); err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		phone.ClientID = id
		if phone.ID, err = repo.CreatePhone(ctx, phone); err != nil {
			return fmt.Errorf("insert phone: %w", err)
		}
		return nil
	})
	if err != nil {
		if res, ok := conflictResult[ClientView](err); ok {
			return res, nil
		}
		return shared.Result[ClientView]{}, fmt.Errorf("create client: %w", err)
	}
	if client.ID == 0 {
		s.logger.Error("client insert returned no id", slog.String("email", client.Email))
		return shared.Fail[ClientView](shared.StatusInternalError, msgCreateFailure), nil
	}

	view, err := newClientView(client, address.ID, phone.Number)
	if err != nil {
		return shared.Result[ClientView]{}, err
	}
	if s.metrics != nil {
		s.metrics.ClientCreated()
	}
	s.logger.Info("client created", slog.Int64("client_id", client.ID))
	return shared.Created(view), nil
}

// ListClients returns every client with address id and phone, ascending by id.
func (s *Service) ListClients(ctx context.Context) (shared.Result[[]ClientView], error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return shared.Result[[]ClientView]{}, fmt.Errorf("list clients: %w", err)
	}
	views := make([]ClientView, 0, len(listings))
	for _, l := range listings {
		view, err := newClientView(l.Client, l.AddressID, l.Phone)
		if err != nil {
			return shared.Result[[]ClientView]{}, err
		}
		views = append(views, view)
	}
	return shared.OK(views), nil
}

// GetClient returns the client detail with its sales narrowed by filter, newest first.
func (s *Service) GetClient(ctx context.Context, id int64, filter SaleFilter) (shared.Result[ClientDetail], error) {
	client, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Fail[ClientDetail](shared.StatusNotFound, msgNotFound), nil
	}
	if err != nil {
		return shared.Result[ClientDetail]{}, fmt.Errorf("get client: %w", err)
	}

	var (
		address *Address
		phone   *Phone
		sales   []Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if address, err = s.repo.GetAddress(gctx, id); err != nil {
			return fmt.Errorf("get address of client %d: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if phone, err = s.repo.GetPhone(gctx, id); err != nil {
			return fmt.Errorf("get phone of client %d: %w", id, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sales, err = s.repo.ListSales(gctx, id); err != nil {
			return fmt.Errorf("list sales of client %d: %w", id, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return shared.Result[ClientDetail]{}, err
	}

	detail, err := s.newClientDetail(*client, *address, *phone, filterSales(sales, filter, s.loc))
	if err != nil {
		return shared.Result[ClientDetail]{}, err
	}
	return shared.OK(detail), nil
}

// UpdateClient applies a partial update, touching only the entities that own supplied fields.
func (s *Service) UpdateClient(ctx context.Context, id int64, req UpdateClientRequest) (shared.Result[ClientView], error) {
	client, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Fail[ClientView](shared.StatusNotFound, msgNotFound), nil
	}
	if err != nil {
		return shared.Result[ClientView]{}, fmt.Errorf("get client: %w", err)
	}

	clientFields, addressFields, phoneFields := req.Split()
	if clientFields.CPF != nil {
		owner, err := s.cpfOwner(ctx, *clientFields.CPF)
		if err != nil {
			return shared.Result[ClientView]{}, err
		}
		if owner != nil && owner.ID != id {
			return shared.Fail[ClientView](shared.StatusConflict, msgCPFTaken), nil
		}
	}
	if clientFields.Email != nil {
		owner, err := s.emailOwner(ctx, *clientFields.Email)
		if err != nil {
			return shared.Result[ClientView]{}, err
		}
		if owner != nil && owner.ID != id {
			return shared.Fail[ClientView](shared.StatusConflict, msgEmailTaken), nil
		}
	}

	address, err := s.repo.GetAddress(ctx, id)
	if err != nil {
		return shared.Result[ClientView]{}, fmt.Errorf("get address of client %d: %w", id, err)
	}
	phone, err := s.repo.GetPhone(ctx, id)
	if err != nil {
		return shared.Result[ClientView]{}, fmt.Errorf("get phone of client %d: %w", id, err)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if !clientFields.empty() {
			clientFields.apply(client)
			if err := repo.Update(ctx, *client); err != nil {
				return fmt.Errorf("save client: %w", err)
			}
		}
		if !addressFields.empty() {
			addressFields.apply(address)
			if err := repo.UpdateAddress(ctx, *address); err != nil {
				return fmt.Errorf("save address: %w", err)
			}
		}
		if !phoneFields.empty() {
			phoneFields.apply(phone)
			if err := repo.UpdatePhone(ctx, *phone); err != nil {
				return fmt.Errorf("save phone: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if res, ok := conflictResult[ClientView](err); ok {
			return res, nil
		}
		return shared.Result[ClientView]{}, fmt.Errorf("update client: %w", err)
	}

	client, err = s.repo.Get(ctx, id)
	if err != nil {
		return shared.Result[ClientView]{}, fmt.Errorf("reload client: %w", err)
	}
	phone, err = s.repo.GetPhone(ctx, id)
	if err != nil {
		return shared.Result[ClientView]{}, fmt.Errorf("reload phone: %w", err)
	}
	view, err := newClientView(*client, address.ID, phone.Number)
	if err != nil {
		return shared.Result[ClientView]{}, err
	}
	return shared.OK(view), nil
}

// DeleteClient removes the client; address, phone and sales go with it.
func (s *Service) DeleteClient(ctx context.Context, id int64) (shared.Result[struct{}], error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Fail[struct{}](shared.StatusNotFound, msgNotFound), nil
		}
		return shared.Result[struct{}]{}, fmt.Errorf("get client: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Fail[struct{}](shared.StatusNotFound, msgNotFound), nil
		}
		return shared.Result[struct{}]{}, fmt.Errorf("delete client: %w", err)
	}
	s.logger.Info("client deleted", slog.Int64("client_id", id))
	return shared.NoContent[struct{}](), nil
}

func (s *Service) cpfOwner(ctx context.Context, cpf string) (*Client, error) {
	c, err := s.repo.GetByCPF(ctx, cpf)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check cpf: %w", err)
	}
	return c, nil
}

func (s *Service) emailOwner(ctx context.Context, email string) (*Client, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	return c, nil
}

// conflictResult turns a unique violation that slipped past the lookups into the matching
// CONFLICT outcome.
func conflictResult[T any](err error) (shared.Result[T], bool) {
	constraint, ok := db.ViolatedConstraint(err)
	if !ok {
		return shared.Result[T]{}, false
	}
	switch constraint {
	case "clients_cpf_key":
		return shared.Fail[T](shared.StatusConflict, msgCPFTaken), true
	case "clients_email_key":
		return shared.Fail[T](shared.StatusConflict, msgEmailTaken), true
	}
	return shared.Result[T]{}, false
}

func filterSales(sales []Sale, filter SaleFilter, loc *time.Location) []Sale {
	filtered := sales
	if filter.Month != nil {
		filtered = keep(filtered, func(s Sale) bool { return int(s.CreatedAt.In(loc).Month()) == *filter.Month })
	}
	if filter.Year != nil {
		filtered = keep(filtered, func(s Sale) bool { return s.CreatedAt.In(loc).Year() == *filter.Year })
	}
	out := make([]Sale, len(filtered))
	copy(out, filtered)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func keep(sales []Sale, fn func(Sale) bool) []Sale {
	var out []Sale
	for _, s := range sales {
		if fn(s) {
			out = append(out, s)
		}
	}
	return out
}

func newClientView(c Client, addressID int64, phone string) (ClientView, error) {
	cpf, err := format.FormatCPF(c.CPF)
	if err != nil {
		return ClientView{}, fmt.Errorf("client %d: %w", c.ID, err)
	}
	number, err := format.FormatPhone(phone)
	if err != nil {
		return ClientView{}, fmt.Errorf("client %d: %w", c.ID, err)
	}
	return ClientView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		CPF:       cpf,
		AddressID: addressID,
		Phone:     number,
	}, nil
}

func (s *Service) newClientDetail(c Client, a Address, p Phone, sales []Sale) (ClientDetail, error) {
	cpf, err := format.FormatCPF(c.CPF)
	if err != nil {
		return ClientDetail{}, fmt.Errorf("client %d: %w", c.ID, err)
	}
	cep, err := format.FormatCEP(a.CEP)
	if err != nil {
		return ClientDetail{}, fmt.Errorf("client %d: %w", c.ID, err)
	}
	number, err := format.FormatPhone(p.Number)
	if err != nil {
		return ClientDetail{}, fmt.Errorf("client %d: %w", c.ID, err)
	}

	views := make([]SaleView, 0, len(sales))
	for _, sale := range sales {
		views = append(views, SaleView{
			ID:         sale.ID,
			ProductID:  sale.ProductID,
			Quantity:   sale.Quantity,
			UnitPrice:  sale.UnitPrice,
			TotalPrice: sale.TotalPrice,
			CreatedAt:  format.FormatDate(sale.CreatedAt.In(s.loc)),
		})
	}

	return ClientDetail{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		CPF:   cpf,
		Address: AddressView{
			Street:       a.Street,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			CEP:          cep,
			City:         a.City,
			UF:           format.UpperUF(a.UF),
		},
		Phone: number,
		Sales: views,
	}, nil
}
