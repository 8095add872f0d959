package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshit18-tiwari/MarketPlace/internal/middleware"
	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

/* =========================
   GATEWAY ORDER (DEMO)
========================= */

type createRazorpayOrderRequest struct {
	Amount   int64  `json:"amount" binding:"required"` // smallest currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateRazorpayOrder hands the client a gateway order to run checkout
// against. Demo mode: the order is fabricated locally, no gateway call.
func CreateRazorpayOrder(keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/razorpay/create"
		defer handlePanic(c, route)

		var req createRazorpayOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		currency := req.Currency
		if currency == "" {
			currency = "INR"
		}
		receipt := req.Receipt
		if receipt == "" {
			receipt = "receipt_" + uuid.NewString()
		}

		order := razorpayOrder{
			ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
			Entity:   "order",
			Amount:   req.Amount,
			Currency: currency,
			Receipt:  receipt,
			Status:   "created",
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   order,
			"key_id":  keyID,
		})
	}
}

/* =========================
   VERIFY & FINALIZE
========================= */

type verifyRazorpayRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	ProductID         string `json:"productId" binding:"required"`
	Quantity          int    `json:"quantity"`
}

// VerifyRazorpayPayment checks the gateway signature and, only on a match,
// records the completed order. Fails closed: a bad signature persists nothing.
func VerifyRazorpayPayment(db *mongo.Database, keySecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/razorpay/verify"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req verifyRazorpayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !verifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, keySecret) {
			logrus.Println("[PAYMENT] [WARN] razorpay signature mismatch for order:", req.RazorpayOrderID)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment signature"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
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
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}

		if isSelfPurchase(product, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You cannot purchase your own product"})
			return
		}

		now := time.Now()
		order := models.Order{
			Buyer:         user.ID,
			Items:         []models.OrderItem{{Product: productID, Quantity: quantity}},
			TotalAmount:   persistedAmount(expectedTotal(product.Price, quantity)),
			Status:        models.OrderStatusCompleted,
			PaymentStatus: models.PaymentStatusCompleted,
			PaymentID:     req.RazorpayPaymentID,
			OrderRef:      req.RazorpayOrderID,
			Messages:      []models.OrderMessage{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		view, err := populateOrder(ctx, db, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified successfully",
			"order":   view,
		})
	}
}

// GetRazorpayKey exposes the public key id for client-side checkout.
func GetRazorpayKey(keyID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key_id": keyID})
	}
}

// razorpaySignature is the gateway contract: hex-encoded HMAC-SHA256 over
// "<orderId>|<paymentId>" with the shared key secret.
func razorpaySignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func verifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	expected := razorpaySignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
