package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

func TestNormalizeLineItemsEmpty(t *testing.T) {
	_, err := normalizeLineItems(createOrderRequest{})
	if !errors.Is(err, errNoOrderItems) {
		t.Fatalf("expected errNoOrderItems, got %v", err)
	}
}

func TestNormalizeLineItemsLegacySingleProductShape(t *testing.T) {
	productID := primitive.NewObjectID()

	items, err := normalizeLineItems(createOrderRequest{Product: productID.Hex(), Quantity: 2})
	if err != nil {
		t.Fatalf("normalizeLineItems returned error: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != productID || items[0].Quantity != 2 {
		t.Fatalf("unexpected normalization result: %+v", items)
	}

	// Legacy shape without a quantity defaults to one.
	items, err = normalizeLineItems(createOrderRequest{Product: productID.Hex()})
	if err != nil {
		t.Fatalf("normalizeLineItems returned error: %v", err)
	}
	if items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", items[0].Quantity)
	}
}

func TestNormalizeLineItemsRejectsBadEntries(t *testing.T) {
	valid := primitive.NewObjectID().Hex()

	if _, err := normalizeLineItems(createOrderRequest{
		Items: []lineItemRequest{{Product: "not-an-id", Quantity: 1}},
	}); err == nil {
		t.Fatal("expected error for unparseable product id")
	}

	for _, quantity := range []int{0, -3} {
		if _, err := normalizeLineItems(createOrderRequest{
			Items: []lineItemRequest{{Product: valid, Quantity: quantity}},
		}); err == nil {
			t.Fatalf("expected error for quantity=%d", quantity)
		}
	}
}

func TestPriceOrderComputesAuthoritativeTotal(t *testing.T) {
	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	products := map[primitive.ObjectID]models.Product{
		first:  {ID: first, Price: 499.99, Seller: sellerID},
		second: {ID: second, Price: 0.10, Seller: sellerID},
	}
	items := []lineItem{
		{ProductID: first, Quantity: 3},
		{ProductID: second, Quantity: 3},
	}

	resolved, total, err := priceOrder(items, products, buyerID)
	if err != nil {
		t.Fatalf("priceOrder returned error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved items, got %d", len(resolved))
	}

	// 499.99*3 + 0.10*3 would pick up binary noise under float64 addition.
	if got := persistedAmount(total); got != 1500.27 {
		t.Fatalf("expected total 1500.27, got %v", got)
	}
}

func TestPriceOrderAbortsWholeOrderOnMissingProduct(t *testing.T) {
	buyerID := primitive.NewObjectID()
	known := primitive.NewObjectID()
	missing := primitive.NewObjectID()

	products := map[primitive.ObjectID]models.Product{
		known: {ID: known, Price: 10, Seller: primitive.NewObjectID()},
	}
	items := []lineItem{
		{ProductID: known, Quantity: 1},
		{ProductID: missing, Quantity: 1},
	}

	resolved, _, err := priceOrder(items, products, buyerID)
	var notFound productNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected productNotFoundError, got %v", err)
	}
	if notFound.ProductID != missing.Hex() {
		t.Fatalf("expected failing id %s, got %s", missing.Hex(), notFound.ProductID)
	}
	if resolved != nil {
		t.Fatal("expected no partial result")
	}
}

func TestPriceOrderRejectsSelfPurchase(t *testing.T) {
	buyerID := primitive.NewObjectID()
	ownListing := primitive.NewObjectID()
	foreign := primitive.NewObjectID()

	products := map[primitive.ObjectID]models.Product{
		foreign:    {ID: foreign, Price: 25, Seller: primitive.NewObjectID()},
		ownListing: {ID: ownListing, Price: 10, Seller: buyerID},
	}

	// The valid foreign item does not save the request.
	items := []lineItem{
		{ProductID: foreign, Quantity: 1},
		{ProductID: ownListing, Quantity: 1},
	}

	_, _, err := priceOrder(items, products, buyerID)
	var selfPurchase selfPurchaseError
	if !errors.As(err, &selfPurchase) {
		t.Fatalf("expected selfPurchaseError, got %v", err)
	}
	if selfPurchase.ProductID != ownListing {
		t.Fatalf("expected failing product %s, got %s", ownListing.Hex(), selfPurchase.ProductID.Hex())
	}
}

func TestPersistedAmountRoundsToTwoPlaces(t *testing.T) {
	products := map[primitive.ObjectID]models.Product{}
	id := primitive.NewObjectID()
	products[id] = models.Product{ID: id, Price: 0.1, Seller: primitive.NewObjectID()}

	_, total, err := priceOrder([]lineItem{{ProductID: id, Quantity: 3}}, products, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("priceOrder returned error: %v", err)
	}
	if got := persistedAmount(total); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}
