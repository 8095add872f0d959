package handlers

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

var errNoOrderItems = errors.New("No order items provided")

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("Product %s not found", e.ProductID)
}

type selfPurchaseError struct {
	ProductID primitive.ObjectID
}

func (e selfPurchaseError) Error() string {
	return "You cannot purchase your own product"
}

type lineItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// createOrderRequest accepts both the canonical items list and the legacy
// single-product shape some clients still send.
type createOrderRequest struct {
	Items    []lineItemRequest `json:"items"`
	Product  string            `json:"product"`
	Quantity int               `json:"quantity"`
}

type lineItem struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// normalizeLineItems converts a request into the canonical line-item list,
// rejecting empty lists, unparseable ids and non-positive quantities.
func normalizeLineItems(req createOrderRequest) ([]lineItem, error) {
	raw := req.Items
	if len(raw) == 0 && req.Product != "" {
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		raw = []lineItemRequest{{Product: req.Product, Quantity: quantity}}
	}
	if len(raw) == 0 {
		return nil, errNoOrderItems
	}

	items := make([]lineItem, 0, len(raw))
	for _, entry := range raw {
		productID, err := primitive.ObjectIDFromHex(entry.Product)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", entry.Product)
		}
		if entry.Quantity < 1 {
			return nil, errors.New("quantity must be a positive integer")
		}
		items = append(items, lineItem{ProductID: productID, Quantity: entry.Quantity})
	}
	return items, nil
}

// priceOrder resolves each line item against the fetched products and computes
// the authoritative total. Pure: any failure aborts the whole order with no
// partial result. The total stays an exact decimal here; rounding to two
// places happens once, at persistence.
func priceOrder(items []lineItem, products map[primitive.ObjectID]models.Product, buyerID primitive.ObjectID) ([]models.OrderItem, decimal.Decimal, error) {
	resolved := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, decimal.Zero, productNotFoundError{ProductID: item.ProductID.Hex()}
		}
		if isSelfPurchase(product, buyerID) {
			return nil, decimal.Zero, selfPurchaseError{ProductID: item.ProductID}
		}

		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, models.OrderItem{
			Product:  item.ProductID,
			Quantity: item.Quantity,
		})
	}

	return resolved, total, nil
}

// persistedAmount rounds an exact decimal total to the two places stored in
// the database.
func persistedAmount(total decimal.Decimal) float64 {
	return total.Round(2).InexactFloat64()
}

// isSelfPurchase reports whether the buyer owns the listing. Every
// order-creating path must reject such a purchase, the payment ones included.
func isSelfPurchase(product models.Product, buyerID primitive.ObjectID) bool {
	return product.Seller == buyerID
}
