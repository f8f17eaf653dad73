package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// EmptyInventoryJSON is the encoding used when nothing has been persisted yet.
	EmptyInventoryJSON = "{}"

	// EmptyPlaceholder is displayed instead of entry lines when the inventory is empty.
	EmptyPlaceholder = "No products in inventory."
)

var (
	ErrEmptyProductName = errors.New("empty product name")
	ErrNegativeQuantity = errors.New("negative quantity")
	ErrQuantityOverflow = errors.New("quantity overflow")
)

// Inventory maps a product name to its accumulated quantity.
type Inventory map[string]int

// Entry is one product line of an inventory.
type Entry struct {
	Product  string
	Quantity int
}

func NewInventory() Inventory {
	return make(Inventory)
}

// Add inserts product with quantity, or adds quantity to the existing total.
// It returns the new total.
func (inv Inventory) Add(product string, quantity int) (int, error) {
	if product == "" {
		return 0, ErrEmptyProductName
	}
	if quantity < 0 {
		return 0, ErrNegativeQuantity
	}

	current := inv[product]
	if current > math.MaxInt-quantity {
		return current, ErrQuantityOverflow
	}

	inv[product] = current + quantity
	return inv[product], nil
}

// Entries returns the inventory sorted by product name.
func (inv Inventory) Entries() []Entry {
	entries := make([]Entry, 0, len(inv))
	for product, quantity := range inv {
		entries = append(entries, Entry{Product: product, Quantity: quantity})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Product < entries[j].Product
	})
	return entries
}

// Render formats one "name: quantity" line per entry, or EmptyPlaceholder.
// Names are written verbatim, so a name containing a newline spans two lines.
func (inv Inventory) Render() string {
	if len(inv) == 0 {
		return EmptyPlaceholder
	}

	var sb strings.Builder
	for i, e := range inv.Entries() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Product)
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(e.Quantity))
	}
	return sb.String()
}

// Encode serializes the whole inventory as a JSON object.
func (inv Inventory) Encode() (string, error) {
	if inv == nil {
		return EmptyInventoryJSON, nil
	}
	data, err := json.Marshal(map[string]int(inv))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeInventory parses a JSON object of product names to quantities.
// A JSON null decodes to an empty inventory.
func DecodeInventory(raw string) (Inventory, error) {
	var m map[string]int
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}

	inv := make(Inventory, len(m))
	for product, quantity := range m {
		trimmed := strings.TrimSpace(product)
		if trimmed == "" {
			return nil, ErrEmptyProductName
		}
		if trimmed != product {
			return nil, fmt.Errorf("untrimmed product name %q", product)
		}
		if quantity < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrNegativeQuantity, product, quantity)
		}
		inv[product] = quantity
	}
	return inv, nil
}
