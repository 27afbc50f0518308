package service

import "foodshare/internal/domain/entity"

const defaultFoodImage = "https://images.pexels.com/photos/1640774/pexels-photo-1640774.jpeg"

var categoryImages = map[entity.FoodCategory]string{
	entity.CategoryPrepared: "https://images.pexels.com/photos/1640774/pexels-photo-1640774.jpeg",
	entity.CategoryFresh:    "https://images.pexels.com/photos/1508666/pexels-photo-1508666.jpeg",
	entity.CategoryPackaged: "https://images.pexels.com/photos/4033325/pexels-photo-4033325.jpeg",
	entity.CategoryCanned:   "https://images.pexels.com/photos/4033312/pexels-photo-4033312.jpeg",
	entity.CategoryFrozen:   "https://images.pexels.com/photos/128402/pexels-photo-128402.jpeg",
}

// PlaceholderImage resolves the static image shown for a listing category.
// Listings never upload their own images.
func PlaceholderImage(category entity.FoodCategory) string {
	if url, ok := categoryImages[category]; ok {
		return url
	}
	return defaultFoodImage
}
