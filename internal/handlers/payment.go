package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshit18-tiwari/MarketPlace/internal/middleware"
	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

// amountEpsilon is the tolerated gap between the client's claimed total and
// the server-recomputed one, in currency units.
var amountEpsilon = decimal.NewFromFloat(0.01)

type processPaymentRequest struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"totalAmount"`
	CardNumber  string  `json:"cardNumber"`
	CardHolder  string  `json:"cardHolder"`
	Timestamp   string  `json:"timestamp"`
}

// ProcessPayment is the mocked gateway: it never charges anything, it only
// verifies the claimed amount against the server-side price and records a
// completed order with fresh correlation ids.
func ProcessPayment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/payment/process"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req processPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}
		if req.ProductID == "" || req.Quantity < 1 || req.TotalAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required payment information"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}

		if isSelfPurchase(product, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You cannot purchase your own product"})
			return
		}

		expected := expectedTotal(product.Price, req.Quantity)
		if !amountWithinEpsilon(expected, req.TotalAmount) {
			logrus.Printf("[PAYMENT] [WARN] amount mismatch: expected %s, claimed %v", expected.String(), req.TotalAmount)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount mismatch"})
			return
		}

		paymentID := newCorrelationID("PAY")
		orderRef := newCorrelationID("ORD")

		now := time.Now()
		order := models.Order{
			Buyer:         user.ID,
			Items:         []models.OrderItem{{Product: productID, Quantity: req.Quantity}},
			TotalAmount:   persistedAmount(expected),
			Status:        models.OrderStatusCompleted,
			PaymentStatus: models.PaymentStatusCompleted,
			PaymentID:     paymentID,
			OrderRef:      orderRef,
			Messages:      []models.OrderMessage{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		logrus.Println("[PAYMENT] [INFO] payment recorded:", paymentID)

		view, err := populateOrder(ctx, db, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Payment processed successfully",
			"order":     view,
			"paymentId": paymentID,
			"orderId":   orderRef,
		})
	}
}

// expectedTotal recomputes the authoritative amount for a single line.
func expectedTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

func amountWithinEpsilon(expected decimal.Decimal, claimed float64) bool {
	diff := expected.Sub(decimal.NewFromFloat(claimed)).Abs()
	return diff.LessThanOrEqual(amountEpsilon)
}

// newCorrelationID builds an opaque id like PAY_0A1B...: a prefix plus 24
// uppercase hex chars.
func newCorrelationID(prefix string) string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return prefix + "_" + strings.ToUpper(hex.EncodeToString(buf))
}
