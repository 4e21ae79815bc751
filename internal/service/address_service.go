package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nossamoto/backend/internal/cache"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/validation"
	"github.com/nossamoto/backend/pkg/postal"
)

// AddressTTL is how long a resolved postal code is served from cache.
const AddressTTL = 24 * time.Hour

// AddressService resolves postal codes to addresses.
type AddressService interface {
	Lookup(ctx context.Context, postalCode string) (*model.Address, error)
}

type addressService struct {
	client postal.Client
	cache  cache.Cache
}

// NewAddressService returns an AddressService that caches successful lookups.
func NewAddressService(client postal.Client, c cache.Cache) AddressService {
	return &addressService{client: client, cache: c}
}

func (s *addressService) Lookup(ctx context.Context, postalCode string) (*model.Address, error) {
	code := validation.Digits(postalCode)
	if len(code) != 8 {
		return nil, postal.ErrInvalidCode
	}

	key := "postal:" + code
	if raw, ok := s.cache.Get(ctx, key); ok {
		var addr model.Address
		if err := json.Unmarshal([]byte(raw), &addr); err == nil {
			return &addr, nil
		}
	}

	found, err := s.client.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	addr := &model.Address{
		PostalCode: code,
		Street:     found.Street,
		District:   found.District,
		City:       found.City,
		State:      found.State,
	}
	if b, err := json.Marshal(addr); err == nil {
		if err := s.cache.Set(ctx, key, string(b), AddressTTL); err != nil {
			slog.Warn("failed to cache postal lookup", "postal_code", code, "error", err)
		}
	}
	return addr, nil
}
