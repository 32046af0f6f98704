package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is one of a fixed set of statuses. Any status may be written
// over any other.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderInProgress OrderStatus = "InProgress"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid status in display order.
var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is a sales document keyed by its numeric DocEntry.
type Order struct {
	DocEntry     int64           `json:"docEntry"`
	DocNum       string          `json:"docNum,omitempty" validate:"max=50"`
	CustomerCode string          `json:"customerCode,omitempty" validate:"max=20"`
	POSCode      string          `json:"posCode" validate:"required,max=20"`
	Status       OrderStatus     `json:"status" validate:"required,oneof=Pending InProgress Completed Cancelled"`
	DocTotal     decimal.Decimal `json:"docTotal" validate:"gte=0"`
	Comments     string          `json:"comments,omitempty" validate:"max=254"`
	Lines        []OrderLine     `json:"lines" validate:"dive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// OrderLine is one item row of an Order.
type OrderLine struct {
	LineNum   int             `json:"lineNum"`
	ItemCode  string          `json:"itemCode" validate:"required,max=50"`
	ItemName  string          `json:"itemName,omitempty" validate:"max=200"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	LineTotal decimal.Decimal `json:"lineTotal" validate:"gte=0"`
}
