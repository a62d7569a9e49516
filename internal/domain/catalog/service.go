package catalog

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

// Service exposes catalog browsing.
type Service interface {
	List(ctx context.Context, q Query) (Listing, error)
	Get(ctx context.Context, id string) (Product, error)
	Personalized(ctx context.Context, c Criteria, q Query) (Listing, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "catalog.service"),
	}
}

func (s *service) List(ctx context.Context, q Query) (Listing, error) {
	all, err := s.load(ctx)
	if err != nil {
		return Listing{}, err
	}
	products, err := Apply(all, q)
	if err != nil {
		return Listing{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	return newListing(all, products), nil
}

func (s *service) Get(ctx context.Context, id string) (Product, error) {
	product, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load product", err)
	}
	if !found {
		return Product{}, apperrors.Wrap(apperrors.CodeNotFound, "product not found", ErrProductNotFound)
	}
	return product, nil
}

func (s *service) Personalized(ctx context.Context, c Criteria, q Query) (Listing, error) {
	all, err := s.load(ctx)
	if err != nil {
		return Listing{}, err
	}
	products, err := Apply(Personalize(all, c), q)
	if err != nil {
		return Listing{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	s.logger.Debug("personalized listing", "style", c.Style, "matches", len(products), "skin_tone", c.SkinTone != nil)
	return newListing(all, products), nil
}

func (s *service) load(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load products", err)
	}
	return products, nil
}

func newListing(all, products []Product) Listing {
	return Listing{
		Products:   products,
		Total:      len(products),
		Brands:     Brands(all),
		Categories: Categories(all),
	}
}
