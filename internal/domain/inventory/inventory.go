package inventory

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("inventory: product not found")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// Item is one stock ledger entry: a SKU and the quantity still available.
type Item struct {
	SKU       string
	Quantity  int
	UpdatedAt time.Time
}

func NewItem(sku string, quantity int) (*Item, error) {
	if sku == "" {
		return nil, ErrNotFound
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Item{
		SKU:       sku,
		Quantity:  quantity,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Deduct removes quantity units from the ledger entry. The guard keeps the
// stock count from ever going negative.
func (i *Item) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > i.Quantity {
		return ErrInsufficientStock
	}
	i.Quantity -= quantity
	i.touch()
	return nil
}

// Restore returns previously deducted units to the ledger entry.
func (i *Item) Restore(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Quantity += quantity
	i.touch()
	return nil
}

func (i *Item) touch() {
	i.UpdatedAt = time.Now().UTC()
}
