package handlers

import (
	"testing"

	"github.com/harshit18-tiwari/MarketPlace/internal/models"
)

func countMain(images []models.ProductImage) int {
	n := 0
	for _, img := range images {
		if img.IsMain {
			n++
		}
	}
	return n
}

func TestNormalizeImagesNoneFlagged(t *testing.T) {
	images := normalizeImages([]models.ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg"},
	})
	if countMain(images) != 1 {
		t.Fatalf("expected exactly one main image, got %d", countMain(images))
	}
	if !images[0].IsMain {
		t.Fatal("expected first image to become main when none flagged")
	}
}

func TestNormalizeImagesMultipleFlagged(t *testing.T) {
	images := normalizeImages([]models.ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsMain: true},
		{URL: "c.jpg", IsMain: true},
	})
	if countMain(images) != 1 {
		t.Fatalf("expected exactly one main image, got %d", countMain(images))
	}
	if !images[1].IsMain || images[2].IsMain {
		t.Fatal("expected first flagged image to keep the flag")
	}
}

func TestNormalizeImagesEmpty(t *testing.T) {
	if images := normalizeImages(nil); len(images) != 0 {
		t.Fatalf("expected empty slice, got %v", images)
	}
}

func TestNormalizeImagesDoesNotMutateInput(t *testing.T) {
	input := []models.ProductImage{{URL: "a.jpg"}, {URL: "b.jpg"}}
	normalizeImages(input)
	if input[0].IsMain {
		t.Fatal("input slice must not be mutated")
	}
}

func TestProductMainImage(t *testing.T) {
	p := models.Product{Images: []models.ProductImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsMain: true},
	}}
	if got := p.MainImage(); got != "b.jpg" {
		t.Fatalf("expected b.jpg, got %s", got)
	}

	p.Images = []models.ProductImage{{URL: "a.jpg"}, {URL: "b.jpg"}}
	if got := p.MainImage(); got != "a.jpg" {
		t.Fatalf("expected fallback to first image, got %s", got)
	}

	p.Images = nil
	if got := p.MainImage(); got != "" {
		t.Fatalf("expected empty string for no images, got %s", got)
	}
}
