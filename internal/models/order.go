package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// OrderItem is one line of an order: a product reference and a quantity.
// The unit price is not snapshotted; totalAmount captures the priced result.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// OrderMessage is one entry of the buyer/seller thread attached to an order.
type OrderMessage struct {
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Message   string             `bson:"message" json:"message"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Order is the persisted purchase. TotalAmount is always server-computed from
// product prices at creation time; client-supplied amounts are never stored.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Buyer         primitive.ObjectID `bson:"buyer" json:"buyer"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentID     string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	OrderRef      string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Messages      []OrderMessage     `bson:"messages" json:"messages"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanAppendMessage gates the message thread on payment completion. The order
// status is deliberately not consulted: a cancelled order with a completed
// payment still carries an open thread.
func (o Order) CanAppendMessage() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}
