package service

import (
	"errors"
	"strings"
)

// ErrInvalidOrder is returned for order keys outside the whitelist.
var ErrInvalidOrder = errors.New("invalid order parameter")

// OrderField is a whitelisted sort key accepted by ListPages.
type OrderField string

const (
	OrderH1        OrderField = "h1"
	OrderH2        OrderField = "h2"
	OrderH3        OrderField = "h3"
	OrderCreatedAt OrderField = "created_at"
)

// orderColumns maps public sort keys to table columns. Only these columns
// ever reach ORDER BY.
var orderColumns = map[OrderField]string{
	OrderH1:        "h1_count",
	OrderH2:        "h2_count",
	OrderH3:        "h3_count",
	OrderCreatedAt: "created_at",
}

// Order selects the sort column and direction for a listing.
type Order struct {
	Field OrderField
	Desc  bool
}

// DefaultOrder lists pages oldest first.
var DefaultOrder = Order{Field: OrderCreatedAt}

// ParseOrder validates raw against the whitelist. A leading "-" requests
// descending order. Callers apply DefaultOrder when no order was supplied at
// all; an empty value is rejected.
func ParseOrder(raw string) (Order, error) {
	order := Order{}
	if strings.HasPrefix(raw, "-") {
		order.Desc = true
		raw = raw[1:]
	}

	order.Field = OrderField(raw)
	if _, ok := orderColumns[order.Field]; !ok {
		return Order{}, ErrInvalidOrder
	}
	return order, nil
}

// Column returns the table column backing the order field.
func (o Order) Column() (string, bool) {
	column, ok := orderColumns[o.Field]
	return column, ok
}

func (o Order) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}
