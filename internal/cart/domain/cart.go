package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Action is a cart mutation requested against one product line.
type Action string

const (
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
	ActionRemove    Action = "remove"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionIncrement, ActionDecrement, ActionRemove:
		return Action(s), nil
	default:
		return "", ErrInvalidAction
	}
}

// CartRef identifies whose cart an operation targets: the persisted order of
// an authenticated user, or a guest cart by its explicit id. UserID wins when
// both are set.
type CartRef struct {
	UserID  uint
	GuestID string
}

func (r CartRef) Authenticated() bool { return r.UserID != 0 }

// Line is one (product, quantity) pairing as presented to the caller.
type Line struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartInfo is a read-only projection over the current cart lines, recomputed
// on every call.
type CartInfo struct {
	Lines []Line `json:"lines"`
	// TotalPrice is the sum of all line totals.
	TotalPrice decimal.Decimal `json:"total_price"`
	// TotalQuantity counts distinct lines, not summed quantities.
	TotalQuantity int `json:"total_quantity"`
}

// BuildCart aggregates the given lines. An empty cart yields zero totals.
func BuildCart(lines []Line) CartInfo {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].LineTotal)
	}
	return CartInfo{Lines: lines, TotalPrice: total, TotalQuantity: len(lines)}
}

func (c CartInfo) Empty() bool { return c.TotalQuantity == 0 }

// GuestCart is the anonymous, pre-login cart: product id to quantity.
type GuestCart struct {
	ID    string
	Items map[uint]int
}

func NewGuestCart(id string) *GuestCart {
	return &GuestCart{ID: id, Items: make(map[uint]int)}
}

// ProductIDs returns the cart's product ids in ascending order, so that
// projections are stable across calls.
func (g *GuestCart) ProductIDs() []uint {
	ids := make([]uint, 0, len(g.Items))
	for id := range g.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
