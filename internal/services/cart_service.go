package services

import (
	"fmt"

	"pizzeria/internal/models"
	"pizzeria/internal/repositories"
)

// CartService maintains the user's working selection. Cart state is
// advisory: checkout recomputes every price from the catalog, so the
// only contract here is that the cart total uses the same integer-cent
// arithmetic as the server-side computations.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart.
func (s *CartService) Get(userID string) (*models.Cart, error) {
	return s.cartRepo.Get(userID)
}

// AddItem adds one unit of a product + extras selection to the cart.
// A line with the same composite key absorbs the unit (quantity + 1);
// otherwise a new line with quantity 1 is inserted.
func (s *CartService) AddItem(userID, productID string, extras []models.ExtraItem) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product %s: %w", productID, err)
	}

	cart, err := s.cartRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	key := models.CartItemKey(productID, extras)
	merged := false
	for i, item := range cart.Items {
		if item.Key == key {
			cart.Items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			Key:            key,
			ProductID:      product.ID,
			Name:           product.Name,
			PriceCents:     product.PriceCents,
			ImageURL:       product.ImageURL,
			SelectedExtras: extras,
			Quantity:       1,
		})
	}

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity replaces a line's quantity. A quantity of zero or below
// removes the line; negative input is clamped, never an error.
func (s *CartService) SetQuantity(userID, key string, quantity int) (*models.Cart, error) {
	cart, err := s.cartRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		cart.Items = removeItem(cart.Items, key)
	} else {
		for i, item := range cart.Items {
			if item.Key == key {
				cart.Items[i].Quantity = quantity
				break
			}
		}
	}

	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes a line unconditionally.
func (s *CartService) Remove(userID, key string) (*models.Cart, error) {
	cart, err := s.cartRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	cart.Items = removeItem(cart.Items, key)
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID string) error {
	return s.cartRepo.Delete(userID)
}

func removeItem(items []models.CartItem, key string) []models.CartItem {
	kept := items[:0]
	for _, item := range items {
		if item.Key != key {
			kept = append(kept, item)
		}
	}
	return kept
}
