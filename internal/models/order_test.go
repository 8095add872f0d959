package models

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}
	for _, status := range []string{"", "shipped", "Pending", "COMPLETED"} {
		if IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}

func TestCanAppendMessageFollowsPaymentStatusOnly(t *testing.T) {
	order := Order{Status: OrderStatusPending, PaymentStatus: PaymentStatusPending}
	if order.CanAppendMessage() {
		t.Fatal("expected message append to be blocked while payment is pending")
	}

	order.PaymentStatus = PaymentStatusCompleted
	if !order.CanAppendMessage() {
		t.Fatal("expected message append to be allowed once payment completed")
	}

	// An admin cancelling the order must not close the thread.
	order.Status = OrderStatusCancelled
	if !order.CanAppendMessage() {
		t.Fatal("expected cancelled order with completed payment to keep thread open")
	}

	order.PaymentStatus = PaymentStatusFailed
	if order.CanAppendMessage() {
		t.Fatal("expected failed payment to block the thread")
	}
}

func TestOrderJSONFieldNames(t *testing.T) {
	order := Order{
		ID:            primitive.NewObjectID(),
		Buyer:         primitive.NewObjectID(),
		Items:         []OrderItem{{Product: primitive.NewObjectID(), Quantity: 2}},
		TotalAmount:   42.50,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
		PaymentID:     "PAY_ABC",
		OrderRef:      "ORD_ABC",
		Messages:      []OrderMessage{},
		CreatedAt:     time.Now(),
	}

	body, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("json unmarshal failed: %v", err)
	}

	// Clients depend on these exact keys.
	for _, key := range []string{"_id", "buyer", "items", "totalAmount", "status", "paymentStatus", "paymentId", "orderId", "messages", "createdAt"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected key %q in order JSON, got %s", key, body)
		}
	}
}
