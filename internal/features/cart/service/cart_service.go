package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	catalogdomain "spice-market/internal/features/catalog/domain"
	catalogports "spice-market/internal/features/catalog/ports"
	"spice-market/internal/features/cart/domain"
	"spice-market/internal/features/cart/ports"

	"github.com/shopspring/decimal"
)

// CartService handles the business logic for session carts. Cart mutations are
// read-modify-write cycles against the repository, serialized per session so a
// cart instance never sees overlapping writes.
type CartService struct {
	// catalog resolves product ids to priced products.
	catalog catalogports.ProductRepository
	// repo is the per-session cart storage.
	repo ports.CartRepository
	// locks serializes mutations per session id.
	locks sync.Map
}

// NewCartService creates a new instance of CartService.
func NewCartService(catalog catalogports.ProductRepository, repo ports.CartRepository) *CartService {
	return &CartService{
		catalog: catalog,
		repo:    repo,
	}
}

// lockSession acquires the mutex for a session and returns its unlock func.
func (s *CartService) lockSession(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// load fetches the session cart, or a fresh empty cart if none is stored.
func (s *CartService) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if cart == nil {
		cart = domain.NewCart(sessionID)
	}
	return cart, nil
}

// AddItem adds a product to the session cart, merging with an existing line.
// The product must exist in the catalog and be available.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProduct, productID)
		}
		return nil, fmt.Errorf("service: failed to resolve product: %w", err)
	}
	if !product.IsAvailable {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnavailable, productID)
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddLine(productID, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}

	return cart, nil
}

// SetQuantity overwrites the quantity of an existing cart line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem removes a cart line. Removing an absent line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.RemoveLine(productID)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}

	return cart, nil
}

// Clear drops the stored cart for the session.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}
	return nil
}

// GetPricedCart returns the session cart with every line priced from the
// catalog and the derived subtotal.
func (s *CartService) GetPricedCart(ctx context.Context, sessionID string) (*domain.PricedCart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.PricedLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		product, err := s.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to price line %s: %w", l.ProductID, err)
		}

		unit := product.DiscountedPrice()
		lines = append(lines, domain.PricedLine{
			ProductID:       product.ID,
			Name:            product.Name,
			Quantity:        l.Quantity,
			UnitPrice:       unit,
			DiscountPercent: product.DiscountPercent,
			LineTotal:       unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	return &domain.PricedCart{
		SessionID: sessionID,
		Lines:     lines,
		Subtotal:  domain.Subtotal(lines),
	}, nil
}
