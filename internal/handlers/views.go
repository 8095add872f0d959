package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

/* =========================
   DENORMALIZED RESPONSES
========================= */

type buyerView struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// orderItemView carries the product document in place of its id, mirroring
// what clients expect from a populated order. Product is nil when the listing
// has been deleted since the order was placed.
type orderItemView struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type orderView struct {
	ID            primitive.ObjectID    `json:"_id"`
	Buyer         buyerView             `json:"buyer"`
	Items         []orderItemView       `json:"items"`
	TotalAmount   float64               `json:"totalAmount"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"paymentStatus"`
	PaymentID     string                `json:"paymentId,omitempty"`
	OrderRef      string                `json:"orderId,omitempty"`
	Messages      []models.OrderMessage `json:"messages"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// populateOrders resolves buyers and products for a batch of orders with one
// query per collection.
func populateOrders(ctx context.Context, db *mongo.Database, orders []models.Order) ([]orderView, error) {
	productIDs := make([]primitive.ObjectID, 0)
	buyerIDs := make([]primitive.ObjectID, 0, len(orders))
	seenProducts := make(map[primitive.ObjectID]bool)
	seenBuyers := make(map[primitive.ObjectID]bool)

	for _, order := range orders {
		if !seenBuyers[order.Buyer] {
			seenBuyers[order.Buyer] = true
			buyerIDs = append(buyerIDs, order.Buyer)
		}
		for _, item := range order.Items {
			if !seenProducts[item.Product] {
				seenProducts[item.Product] = true
				productIDs = append(productIDs, item.Product)
			}
		}
	}

	products, err := findProductsByID(ctx, db, productIDs)
	if err != nil {
		return nil, err
	}

	buyers := make(map[primitive.ObjectID]models.User, len(buyerIDs))
	if len(buyerIDs) > 0 {
		cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": buyerIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, u := range users {
			buyers[u.ID] = u
		}
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		view := orderView{
			ID:            order.ID,
			Buyer:         buyerView{ID: order.Buyer},
			Items:         make([]orderItemView, 0, len(order.Items)),
			TotalAmount:   order.TotalAmount,
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			PaymentID:     order.PaymentID,
			OrderRef:      order.OrderRef,
			Messages:      order.Messages,
			CreatedAt:     order.CreatedAt,
		}
		if view.Messages == nil {
			view.Messages = []models.OrderMessage{}
		}
		if buyer, ok := buyers[order.Buyer]; ok {
			view.Buyer.Name = buyer.Name
			view.Buyer.Email = buyer.Email
		}
		for _, item := range order.Items {
			itemView := orderItemView{Quantity: item.Quantity}
			if product, ok := products[item.Product]; ok {
				p := product
				itemView.Product = &p
			}
			view.Items = append(view.Items, itemView)
		}
		views = append(views, view)
	}
	return views, nil
}

func populateOrder(ctx context.Context, db *mongo.Database, order models.Order) (orderView, error) {
	views, err := populateOrders(ctx, db, []models.Order{order})
	if err != nil {
		return orderView{}, err
	}
	return views[0], nil
}

func findProductsByID(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	products := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Product
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}
