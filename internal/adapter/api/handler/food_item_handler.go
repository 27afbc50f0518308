package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"foodshare/internal/domain/entity"
	"foodshare/internal/usecase"
	"foodshare/pkg/errors"
	"foodshare/pkg/response"
)

const expiryDateLayout = "2006-01-02"

type FoodItemHandler struct {
	listingUseCase     *usecase.ListingUseCase
	reservationUseCase *usecase.ReservationUseCase
}

func NewFoodItemHandler(listingUseCase *usecase.ListingUseCase, reservationUseCase *usecase.ReservationUseCase) *FoodItemHandler {
	return &FoodItemHandler{
		listingUseCase:     listingUseCase,
		reservationUseCase: reservationUseCase,
	}
}

type createFoodItemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Quantity    string   `json:"quantity" validate:"required"`
	ExpiryDate  string   `json:"expiry_date" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=prepared packaged fresh canned frozen other"`
	DietaryInfo []string `json:"dietary_info"`
	Location    string   `json:"location" validate:"required"`
}

// parseExpiryDate accepts a calendar date or a full RFC 3339 timestamp.
func parseExpiryDate(value string) (time.Time, error) {
	if t, err := time.Parse(expiryDateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.BadRequest("expiry_date must be a date (YYYY-MM-DD)", err)
	}
	return t, nil
}

func (h *FoodItemHandler) CreateFoodItem(c echo.Context) error {
	var req createFoodItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	expiry, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		return response.Error(c, err)
	}

	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	item, err := h.listingUseCase.CreateListing(c.Request().Context(), sess, usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		ExpiryDate:  expiry,
		Category:    entity.FoodCategory(req.Category),
		DietaryInfo: req.DietaryInfo,
		Location:    req.Location,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *FoodItemHandler) Browse(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	listings, err := h.listingUseCase.Browse(c.Request().Context(), sess, c.QueryParam("search"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *FoodItemHandler) GetFoodItem(c echo.Context) error {
	item, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *FoodItemHandler) Reserve(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.reservationUseCase.Reserve(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}
