package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ConditionNew     = "New"
	ConditionLikeNew = "Like New"
	ConditionGood    = "Good"
	ConditionFair    = "Fair"
	ConditionUsed    = "Used"
)

const (
	DamageNone     = "None"
	DamageMinor    = "Minor"
	DamageModerate = "Moderate"
	DamageHeavy    = "Heavy"
)

// ProductImage is one catalog image; at most one per product carries IsMain.
type ProductImage struct {
	URL    string `bson:"url" json:"url"`
	IsMain bool   `bson:"isMain" json:"isMain"`
}

type DamageCondition struct {
	Level       string `bson:"level" json:"level"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Product is a seller's listing. The order flow only ever reads it.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	Condition       string             `bson:"condition" json:"condition"`
	DamageCondition DamageCondition    `bson:"damageCondition" json:"damageCondition"`
	Images          []ProductImage     `bson:"images" json:"images"`
	VideoURL        string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Seller          primitive.ObjectID `bson:"seller" json:"seller"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsValidCondition(condition string) bool {
	switch condition {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionUsed:
		return true
	}
	return false
}

func IsValidDamageLevel(level string) bool {
	switch level {
	case DamageNone, DamageMinor, DamageModerate, DamageHeavy:
		return true
	}
	return false
}

// MainImage returns the URL of the image flagged as main, falling back to the
// first image when none is flagged. Empty string when there are no images.
func (p Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
