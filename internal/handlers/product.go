package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
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

type sellerView struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

type productView struct {
	models.Product
	Seller sellerView `json:"seller"`
}

/* =========================
   PUBLIC CATALOG
========================= */

// GetProducts lists the catalog with optional seller/category/search/price
// filters, newest first, paginated.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if sellerID := c.Query("sellerId"); sellerID != "" {
			id, err := primitive.ObjectIDFromHex(sellerID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid sellerId")
				return
			}
			filter["seller"] = id
		}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if search := c.Query("search"); search != "" {
			regex := primitive.Regex{Pattern: search, Options: "i"}
			filter["$or"] = bson.A{
				bson.M{"title": regex},
				bson.M{"description": regex},
			}
		}
		priceFilter := bson.M{}
		if minPrice := c.Query("minPrice"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				priceFilter["$gte"] = v
			}
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				priceFilter["$lte"] = v
			}
		}
		if len(priceFilter) > 0 {
			filter["price"] = priceFilter
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		views, err := populateProducts(ctx, db, products)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": views,
			"page":     page,
			"pages":    int64(math.Ceil(float64(total) / float64(limit))),
			"total":    total,
		})
	}
}

func GetProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, ok := findProduct(ctx, db, c, route)
		if !ok {
			return
		}

		views, err := populateProducts(ctx, db, []models.Product{product})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

/* =========================
   SELLER MUTATIONS
========================= */

type createProductRequest struct {
	Title           string                 `json:"title" binding:"required"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price" binding:"required,gt=0"`
	Category        string                 `json:"category"`
	Condition       string                 `json:"condition"`
	DamageCondition models.DamageCondition `json:"damageCondition"`
	Images          []models.ProductImage  `json:"images"`
	VideoURL        string                 `json:"videoUrl"`
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		condition := req.Condition
		if condition == "" {
			condition = models.ConditionNew
		}
		if !models.IsValidCondition(condition) {
			respondWithError(c, http.StatusBadRequest, route, "invalid condition")
			return
		}

		damage := req.DamageCondition
		if damage.Level == "" {
			damage.Level = models.DamageNone
		}
		if !models.IsValidDamageLevel(damage.Level) {
			respondWithError(c, http.StatusBadRequest, route, "invalid damage level")
			return
		}

		now := time.Now()
		product := models.Product{
			Title:           strings.TrimSpace(req.Title),
			Description:     req.Description,
			Price:           req.Price,
			Category:        req.Category,
			Condition:       condition,
			DamageCondition: damage,
			Images:          normalizeImages(req.Images),
			VideoURL:        req.VideoURL,
			Seller:          user.ID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		logrus.Println("[PRODUCT] [INFO] product created by seller:", user.ID.Hex())

		views, err := populateProducts(ctx, db, []models.Product{product})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusCreated, views[0])
	}
}

type updateProductRequest struct {
	Title           *string                 `json:"title"`
	Description     *string                 `json:"description"`
	Price           *float64                `json:"price"`
	Category        *string                 `json:"category"`
	Condition       *string                 `json:"condition"`
	DamageCondition *models.DamageCondition `json:"damageCondition"`
	Images          []models.ProductImage   `json:"images"`
	VideoURL        *string                 `json:"videoUrl"`
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, ok := findProduct(ctx, db, c, route)
		if !ok {
			return
		}

		if !auth.IsOwnerOrAdmin(product.Seller, user) {
			respondWithError(c, http.StatusForbidden, route, "Not authorized to update this product")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			set["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must be greater than 0")
				return
			}
			set["price"] = *req.Price
		}
		if req.Category != nil {
			set["category"] = *req.Category
		}
		if req.Condition != nil {
			if !models.IsValidCondition(*req.Condition) {
				respondWithError(c, http.StatusBadRequest, route, "invalid condition")
				return
			}
			set["condition"] = *req.Condition
		}
		if req.DamageCondition != nil {
			if !models.IsValidDamageLevel(req.DamageCondition.Level) {
				respondWithError(c, http.StatusBadRequest, route, "invalid damage level")
				return
			}
			set["damageCondition"] = *req.DamageCondition
		}
		if req.Images != nil {
			set["images"] = normalizeImages(req.Images)
		}
		if req.VideoURL != nil {
			set["videoUrl"] = *req.VideoURL
		}

		if _, err := db.Collection("products").UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": set}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var updated models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": product.ID}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		views, err := populateProducts(ctx, db, []models.Product{updated})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, ok := findProduct(ctx, db, c, route)
		if !ok {
			return
		}

		if !auth.IsOwnerOrAdmin(product.Seller, user) {
			respondWithError(c, http.StatusForbidden, route, "Not authorized to delete this product")
			return
		}

		if _, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": product.ID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		logrus.Println("[PRODUCT] [INFO] product deleted:", product.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
	}
}

/* =========================
   SHARED LOOKUPS
========================= */

func findProduct(ctx context.Context, db *mongo.Database, c *gin.Context, route string) (models.Product, bool) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondWithError(c, http.StatusNotFound, route, "Product not found")
		return models.Product{}, false
	}

	var product models.Product
	err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		respondWithError(c, http.StatusNotFound, route, "Product not found")
		return models.Product{}, false
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return models.Product{}, false
	}
	return product, true
}

func populateProducts(ctx context.Context, db *mongo.Database, products []models.Product) ([]productView, error) {
	sellerIDs := make([]primitive.ObjectID, 0, len(products))
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		if !seen[p.Seller] {
			seen[p.Seller] = true
			sellerIDs = append(sellerIDs, p.Seller)
		}
	}

	sellers := make(map[primitive.ObjectID]models.User, len(sellerIDs))
	if len(sellerIDs) > 0 {
		cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": sellerIDs}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return nil, err
		}
		for _, u := range users {
			sellers[u.ID] = u
		}
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		view := productView{Product: p, Seller: sellerView{ID: p.Seller}}
		if seller, ok := sellers[p.Seller]; ok {
			view.Seller.Name = seller.Name
			view.Seller.Email = seller.Email
		}
		views = append(views, view)
	}
	return views, nil
}
