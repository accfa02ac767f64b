package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesbook/internal/format"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

const (
	msgProductNotFound = "Product not found"
	msgClientNotFound  = "Client not found"
)

// Store opens the transaction a sale is recorded in.
type Store interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Recorder counts recorded sales.
type Recorder interface {
	SaleCreated()
}

// Service orchestrates sale registration.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics Recorder
	now     func() time.Time
	loc     *time.Location
}

// NewService constructs a Service.
func NewService(store Store, logger *slog.Logger, metrics Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, metrics: metrics, now: time.Now, loc: time.Local}
}

var (
	errProductMissing = errors.New("product missing")
	errClientMissing  = errors.New("client missing")
)

// CreateSale records a sale at the product's current price. The product is checked before
// the client.
func (s *Service) CreateSale(ctx context.Context, clientID int64, req CreateSaleRequest) (shared.Result[SaleView], error) {
	createdAt := s.now()
	if req.CreatedAt != nil {
		ts, err := format.ParseDate(*req.CreatedAt, s.loc)
		if err != nil {
			return shared.Result[SaleView]{}, fmt.Errorf("parse createdAt: %w", err)
		}
		createdAt = ts
	}

	sale := Sale{ClientID: clientID, ProductID: req.ProductID, Quantity: req.Quantity, CreatedAt: createdAt}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		price, err := tx.ProductPrice(ctx, req.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return errProductMissing
		}
		if err != nil {
			return fmt.Errorf("load product price: %w", err)
		}

		exists, err := tx.ClientExists(ctx, clientID)
		if err != nil {
			return fmt.Errorf("check client: %w", err)
		}
		if !exists {
			return errClientMissing
		}

		sale.UnitPrice = price
		sale.TotalPrice = price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		sale.ID, err = tx.InsertSale(ctx, sale)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, errProductMissing):
		return shared.Fail[SaleView](shared.StatusNotFound, msgProductNotFound), nil
	case errors.Is(err, errClientMissing):
		return shared.Fail[SaleView](shared.StatusNotFound, msgClientNotFound), nil
	case err != nil:
		return shared.Result[SaleView]{}, fmt.Errorf("create sale: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SaleCreated()
	}
	s.logger.Info("sale created",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("client_id", clientID),
		slog.String("total", sale.TotalPrice.StringFixed(2)),
	)
	return shared.Created(SaleView{
		ID:         sale.ID,
		ClientID:   sale.ClientID,
		ProductID:  sale.ProductID,
		Quantity:   sale.Quantity,
		UnitPrice:  sale.UnitPrice,
		TotalPrice: sale.TotalPrice,
		CreatedAt:  format.FormatDate(sale.CreatedAt.In(s.loc)),
	}), nil
}
