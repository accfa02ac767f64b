package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

const (
	msgNameTaken = "Product already registered"
	msgNotFound  = "Product not found"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (shared.Result[ProductView], error) {
	taken, err := s.nameTaken(ctx, req.Name, 0)
	if err != nil {
		return shared.Result[ProductView]{}, err
	}
	if taken {
		return shared.Fail[ProductView](shared.StatusConflict, msgNameTaken), nil
	}

	product, err := s.repo.Create(ctx, Product{Name: req.Name, Description: req.Description, Price: req.Price.Decimal})
	if errors.Is(err, db.ErrUniqueViolation) {
		return shared.Fail[ProductView](shared.StatusConflict, msgNameTaken), nil
	}
	if err != nil {
		return shared.Result[ProductView]{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", slog.Int64("product_id", product.ID))
	return shared.Created(newProductView(product)), nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (shared.Result[ProductView], error) {
	product, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Fail[ProductView](shared.StatusNotFound, msgNotFound), nil
	}
	if err != nil {
		return shared.Result[ProductView]{}, fmt.Errorf("get product: %w", err)
	}
	return shared.OK(newProductView(product)), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (shared.Result[ProductView], error) {
	product, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Fail[ProductView](shared.StatusNotFound, msgNotFound), nil
	}
	if err != nil {
		return shared.Result[ProductView]{}, fmt.Errorf("get product: %w", err)
	}

	if req.Name != nil {
		taken, err := s.nameTaken(ctx, *req.Name, id)
		if err != nil {
			return shared.Result[ProductView]{}, err
		}
		if taken {
			return shared.Fail[ProductView](shared.StatusConflict, msgNameTaken), nil
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = req.Price.Decimal
	}

	err = s.repo.Update(ctx, product)
	switch {
	case errors.Is(err, db.ErrUniqueViolation):
		return shared.Fail[ProductView](shared.StatusConflict, msgNameTaken), nil
	case errors.Is(err, shared.ErrNotFound):
		return shared.Fail[ProductView](shared.StatusNotFound, msgNotFound), nil
	case err != nil:
		return shared.Result[ProductView]{}, fmt.Errorf("update product: %w", err)
	}
	return shared.OK(newProductView(product)), nil
}

// ListProducts returns active products ordered by name the way a Brazilian Portuguese
// reader expects, with accents and case ranked below the base letter.
func (s *Service) ListProducts(ctx context.Context) (shared.Result[[]ProductSummary], error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return shared.Result[[]ProductSummary]{}, fmt.Errorf("list products: %w", err)
	}

	// collate.Collator keeps internal buffers; one per call.
	c := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return shared.OK(summaries), nil
}

// DeleteProduct stamps deleted_at; the row stays for the sales that reference it.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (shared.Result[struct{}], error) {
	err := s.repo.SoftDelete(ctx, id, s.now())
	if errors.Is(err, shared.ErrNotFound) {
		return shared.Fail[struct{}](shared.StatusNotFound, msgNotFound), nil
	}
	if err != nil {
		return shared.Result[struct{}]{}, fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info("product deleted", slog.Int64("product_id", id))
	return shared.NoContent[struct{}](), nil
}

func (s *Service) nameTaken(ctx context.Context, name string, self int64) (bool, error) {
	existing, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check product name: %w", err)
	}
	return existing.ID != self, nil
}
