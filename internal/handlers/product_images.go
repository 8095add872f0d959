package handlers

import "github.com/harshit18-tiwari/MarketPlace/internal/models"

// normalizeImages enforces the catalog invariant: at most one image flagged
// main. The first flagged image wins; when none is flagged the first image
// becomes main.
func normalizeImages(images []models.ProductImage) []models.ProductImage {
	if len(images) == 0 {
		return []models.ProductImage{}
	}

	normalized := make([]models.ProductImage, len(images))
	copy(normalized, images)

	mainSeen := false
	for i := range normalized {
		if normalized[i].IsMain {
			if mainSeen {
				normalized[i].IsMain = false
			}
			mainSeen = true
		}
	}
	if !mainSeen {
		normalized[0].IsMain = true
	}
	return normalized
}
