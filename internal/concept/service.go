package concept

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyLabel    = errors.New("label must not be empty")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=concept
type Repository interface {
	ListMappings(ctx context.Context, tenant string) (map[string]string, error)
	UpsertMapping(ctx context.Context, tenant, amount, label string) error
	DeleteMapping(ctx context.Context, tenant, amount string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Table returns the defaults with the tenant's own mappings applied on top.
func (s *Service) Table(ctx context.Context, tenant string) (Table, error) {
	overrides, err := s.repo.ListMappings(ctx, tenant)
	if err != nil {
		return nil, invoice.Persistence("loading concept mappings", err)
	}

	return DefaultTable().Merge(overrides), nil
}

// Set remembers label as the service name for the given amount.
func (s *Service) Set(ctx context.Context, tenant, amount, label string) error {
	key, err := normalize(amount)
	if err != nil {
		return err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}

	return invoice.Persistence("saving concept mapping", s.repo.UpsertMapping(ctx, tenant, key, label))
}

// Delete drops the tenant mapping for amount, restoring the default if any.
func (s *Service) Delete(ctx context.Context, tenant, amount string) error {
	key, err := normalize(amount)
	if err != nil {
		return err
	}

	return invoice.Persistence("deleting concept mapping", s.repo.DeleteMapping(ctx, tenant, key))
}

func normalize(amount string) (string, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(amount), ",", ".", 1))
	if err != nil || d.IsNegative() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	return Key(d), nil
}
