package entity

import "time"

type FoodCategory string

const (
	CategoryPrepared FoodCategory = "prepared"
	CategoryPackaged FoodCategory = "packaged"
	CategoryFresh    FoodCategory = "fresh"
	CategoryCanned   FoodCategory = "canned"
	CategoryFrozen   FoodCategory = "frozen"
	CategoryOther    FoodCategory = "other"
)

func (c FoodCategory) Valid() bool {
	switch c {
	case CategoryPrepared, CategoryPackaged, CategoryFresh, CategoryCanned, CategoryFrozen, CategoryOther:
		return true
	}
	return false
}

type FoodStatus string

const (
	FoodAvailable FoodStatus = "available"
	FoodReserved  FoodStatus = "reserved"
	// Never written by any flow yet.
	FoodCollected FoodStatus = "collected"
)

type FoodItem struct {
	ID          string       `json:"id" firestore:"-"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Quantity    string       `json:"quantity" firestore:"quantity"`
	ExpiryDate  time.Time    `json:"expiry_date" firestore:"expiryDate"`
	Category    FoodCategory `json:"category" firestore:"category"`
	DietaryInfo []string     `json:"dietary_info" firestore:"dietaryInfo"`
	ImageURL    string       `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	DonorID     string       `json:"donor_id" firestore:"donorId"`
	DonorName   string       `json:"donor_name" firestore:"donorName"`
	Status      FoodStatus   `json:"status" firestore:"status"`
	Location    string       `json:"location" firestore:"location"`
	CreatedAt   time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time    `json:"updated_at" firestore:"updatedAt"`
	ReservedBy  string       `json:"reserved_by,omitempty" firestore:"reservedBy,omitempty"`
	ReservedAt  *time.Time   `json:"reserved_at,omitempty" firestore:"reservedAt,omitempty"`
}
