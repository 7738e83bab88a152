package services

import (
	"context"
	"errors"
	"strings"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

// AddressRepository defines persistence operations for delivery addresses.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]types.Address, error)
	Get(ctx context.Context, id string) (types.Address, error)
	Create(ctx context.Context, address types.Address) (types.Address, error)
	Update(ctx context.Context, id, userID string, update types.AddressUpdate) error
	Disable(ctx context.Context, id, userID string) error
}

// AddressService encapsulates delivery address use-cases.
type AddressService struct {
	addresses AddressRepository
}

func NewAddressService(addresses AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]types.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, address types.Address) (types.Address, error) {
	if strings.TrimSpace(address.AddressLine) == "" {
		return types.Address{}, failf(ErrValidation, "address line can't be blank")
	}
	return s.addresses.Create(ctx, address)
}

func (s *AddressService) Update(ctx context.Context, userID, id string, update types.AddressUpdate) error {
	if strings.TrimSpace(id) == "" {
		return failf(ErrValidation, "address id can't be blank")
	}
	if err := s.addresses.Update(ctx, id, userID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "address not found")
		}
		return err
	}
	return nil
}

// Disable soft-deletes an address; order history keeps pointing at it.
func (s *AddressService) Disable(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return failf(ErrValidation, "address id can't be blank")
	}
	if err := s.addresses.Disable(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "address not found")
		}
		return err
	}
	return nil
}
