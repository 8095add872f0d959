package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harshit18-tiwari/MarketPlace/internal/auth"
	"github.com/harshit18-tiwari/MarketPlace/internal/middleware"
	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

/* =========================
   CREATE ORDER
========================= */

// CreateOrder prices a buyer's line items against current catalog prices and
// persists the order. Validation fully precedes the single write: a missing
// product or a self-purchase rejects the whole request with nothing persisted.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		items, err := normalizeLineItems(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		ids := make([]primitive.ObjectID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := findProductsByID(ctx, db, ids)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		resolved, total, err := priceOrder(items, products, user.ID)
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusNotFound, route, notFound.Error())
				return
			}
			var selfPurchase selfPurchaseError
			if errors.As(err, &selfPurchase) {
				respondWithError(c, http.StatusForbidden, route, selfPurchase.Error())
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		now := time.Now()
		order := models.Order{
			Buyer:         user.ID,
			Items:         resolved,
			TotalAmount:   persistedAmount(total),
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			Messages:      []models.OrderMessage{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		logrus.Println("[ORDER] [INFO] order created for buyer:", user.ID.Hex())

		view, err := populateOrder(ctx, db, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

/* =========================
   QUERIES
========================= */

// GetMyOrders lists the caller's own orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/my"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findOrderViews(ctx, db, bson.M{"buyer": user.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Orders could not be fetched")
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetAllOrders lists every order, newest first. Admin-gated in the router.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		views, err := findOrderViews(ctx, db, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "Orders could not be fetched")
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetOrderByID returns one order, message thread included. Only the owning
// buyer or an admin may see it; everyone else gets 403.
func GetOrderByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, ok := findOrder(ctx, db, c, route)
		if !ok {
			return
		}

		if !auth.IsOwnerOrAdmin(order.Buyer, user) {
			respondWithError(c, http.StatusForbidden, route, "Not authorized to view this order")
			return
		}

		view, err := populateOrder(ctx, db, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

/* =========================
   STATUS & MESSAGES
========================= */

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the admin escape hatch for order lifecycle changes.
// Any valid status may be set; unknown values are rejected outright.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.IsValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, ok := findOrder(ctx, db, c, route)
		if !ok {
			return
		}

		update := bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}}
		if _, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.Status = req.Status

		logrus.Println("[ORDER] [INFO] status updated:", order.ID.Hex(), "->", req.Status)
		c.JSON(http.StatusOK, order)
	}
}

type postMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// PostOrderMessage appends to the order's message thread. The thread only
// opens once the payment has completed; order status is not consulted.
func PostOrderMessage(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/:id/messages"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req postMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			respondWithError(c, http.StatusBadRequest, route, "Message is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, ok := findOrder(ctx, db, c, route)
		if !ok {
			return
		}

		if !auth.IsOwnerOrAdmin(order.Buyer, user) {
			respondWithError(c, http.StatusForbidden, route, "Not authorized to message on this order")
			return
		}
		if !order.CanAppendMessage() {
			respondWithError(c, http.StatusForbidden, route, "Messages are available after payment is completed")
			return
		}

		message := models.OrderMessage{
			Sender:    user.ID,
			Message:   strings.TrimSpace(req.Message),
			Timestamp: time.Now(),
		}
		update := bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updatedAt": message.Timestamp},
		}
		if _, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		order.Messages = append(order.Messages, message)

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   SHARED LOOKUPS
========================= */

func findOrderViews(ctx context.Context, db *mongo.Database, filter bson.M) ([]orderView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return populateOrders(ctx, db, orders)
}

// findOrder resolves the :id path param, writing the error response itself
// when the id is malformed or the order does not exist.
func findOrder(ctx context.Context, db *mongo.Database, c *gin.Context, route string) (models.Order, bool) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, "Order not found")
		return models.Order{}, false
	}

	var order models.Order
	err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		respondWithError(c, http.StatusNotFound, route, "Order not found")
		return models.Order{}, false
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return models.Order{}, false
	}
	return order, true
}
