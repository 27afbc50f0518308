package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/internal/domain/service"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
	"foodshare/pkg/logger"
)

// Upper bound on concurrent donor reads while browsing.
const donorLookupConcurrency = 8

type ListingUseCase struct {
	foodItemRepo repository.FoodItemRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
}

func NewListingUseCase(foodItemRepo repository.FoodItemRepository, userRepo repository.UserRepository, activityRepo repository.ActivityRepository) *ListingUseCase {
	return &ListingUseCase{
		foodItemRepo: foodItemRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Quantity    string
	ExpiryDate  time.Time
	Category    entity.FoodCategory
	DietaryInfo []string
	Location    string
}

// Listing is a browsable food item with its donor's average rating.
type Listing struct {
	*entity.FoodItem
	DonorRating float64 `json:"donor_rating"`
}

// CreateListing stores an available food item for the session user and
// records a donation activity. The listing stays when the activity write
// fails.
func (uc *ListingUseCase) CreateListing(ctx context.Context, sess *session.Session, input CreateListingInput) (*entity.FoodItem, error) {
	uid, name, err := requireUser(sess)
	if err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown category %q", input.Category), nil)
	}

	at := now()
	dietary := input.DietaryInfo
	if dietary == nil {
		dietary = []string{}
	}
	item := &entity.FoodItem{
		Title:       input.Title,
		Description: input.Description,
		Quantity:    input.Quantity,
		ExpiryDate:  input.ExpiryDate,
		Category:    input.Category,
		DietaryInfo: dietary,
		ImageURL:    service.PlaceholderImage(input.Category),
		DonorID:     uid,
		DonorName:   name,
		Status:      entity.FoodAvailable,
		Location:    input.Location,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := uc.foodItemRepo.Create(ctx, item); err != nil {
		logger.Step("donate", "create_food_item", uid, err)
		return nil, err
	}

	activity := &entity.Activity{
		Type:        entity.ActivityDonation,
		UserID:      uid,
		Description: `Donated "` + item.Title + `"`,
		Timestamp:   at,
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		logger.Step("donate", "create_activity", item.ID, err)
		return nil, err
	}

	return item, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*entity.FoodItem, error) {
	return uc.foodItemRepo.GetByID(ctx, id)
}

// Browse lists available items not owned by the session user, each joined
// with its donor's average rating (0 when the donor has none or is gone).
// A non-empty search keeps items whose title, description or category
// contains it, ignoring case.
func (uc *ListingUseCase) Browse(ctx context.Context, sess *session.Session, search string) ([]*Listing, error) {
	uid, _, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	items, err := uc.foodItemRepo.ListByStatus(ctx, entity.FoodAvailable)
	if err != nil {
		return nil, err
	}

	listings := make([]*Listing, 0, len(items))
	for _, item := range items {
		if item.DonorID == uid {
			continue
		}
		if !matchesSearch(item, search) {
			continue
		}
		listings = append(listings, &Listing{FoodItem: item})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(donorLookupConcurrency)
	for _, listing := range listings {
		g.Go(func() error {
			donor, err := uc.userRepo.GetByID(gctx, listing.DonorID)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil
				}
				return err
			}
			listing.DonorRating = donor.AverageOrZero()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return listings, nil
}

func matchesSearch(item *entity.FoodItem, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(string(item.Category)), q)
}
