// Package memory is an in-process implementation of the domain
// repositories. It backs local runs with DATA_BACKEND=memory and the
// use-case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"foodshare/internal/domain/entity"
	"foodshare/internal/domain/repository"
	"foodshare/pkg/errors"
)

// Store holds every collection behind one lock. Values are copied on the
// way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	users        map[string]entity.User
	foodItems    map[string]entity.FoodItem
	reservations map[string]entity.Reservation
	chats        map[string]entity.Chat
	messages     map[string][]entity.Message
	activities   map[string]entity.Activity

	subscribers map[string]map[*subscription]struct{}
	failures    map[string]error
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]entity.User),
		foodItems:    make(map[string]entity.FoodItem),
		reservations: make(map[string]entity.Reservation),
		chats:        make(map[string]entity.Chat),
		messages:     make(map[string][]entity.Message),
		activities:   make(map[string]entity.Activity),
		subscribers:  make(map[string]map[*subscription]struct{}),
		failures:     make(map[string]error),
	}
}

// FailNext makes the next call of op (for example "chats.CreateMessage")
// return err instead of touching the store.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// failure must be called with s.mu held for writing.
func (s *Store) failure(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *Store) Users() repository.UserRepository               { return &userRepository{s} }
func (s *Store) FoodItems() repository.FoodItemRepository       { return &foodItemRepository{s} }
func (s *Store) Reservations() repository.ReservationRepository { return &reservationRepository{s} }
func (s *Store) Chats() repository.ChatRepository               { return &chatRepository{s} }
func (s *Store) Activities() repository.ActivityRepository      { return &activityRepository{s} }
func (s *Store) Reserver() repository.Reserver                  { return &reserver{s} }
func (s *Store) Purger() repository.CollectionPurger            { return &purger{s} }

// MessageCount reports how many messages are stored under chatID, including
// messages whose chat document is gone.
func (s *Store) MessageCount(chatID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[chatID])
}

func newID() string {
	return uuid.New().String()
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.Create"); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = newID()
	}
	r.s.users[user.ID] = copyUser(*user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	user = copyUser(user)
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.UpdateProfile"); err != nil {
		return err
	}
	stored, ok := r.s.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.Location.Address = user.Location.Address
	stored.PhoneNumber = user.PhoneNumber
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepository) UpdateRatings(ctx context.Context, id string, ratings []int, comments []entity.RatingComment, average float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.UpdateRatings"); err != nil {
		return err
	}
	stored, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	stored.Ratings = append([]int(nil), ratings...)
	stored.RatingComments = append([]entity.RatingComment(nil), comments...)
	stored.AverageRating = &average
	r.s.users[id] = stored
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("users.Delete"); err != nil {
		return err
	}
	delete(r.s.users, id)
	return nil
}

type foodItemRepository struct{ s *Store }

func (r *foodItemRepository) Create(ctx context.Context, item *entity.FoodItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("foodItems.Create"); err != nil {
		return err
	}
	item.ID = newID()
	r.s.foodItems[item.ID] = copyFoodItem(*item)
	return nil
}

func (r *foodItemRepository) GetByID(ctx context.Context, id string) (*entity.FoodItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.foodItems[id]
	if !ok {
		return nil, errors.NotFound("Food item", nil)
	}
	item = copyFoodItem(item)
	return &item, nil
}

func (r *foodItemRepository) ListByStatus(ctx context.Context, status entity.FoodStatus) ([]*entity.FoodItem, error) {
	return r.filter(func(item *entity.FoodItem) bool { return item.Status == status }), nil
}

func (r *foodItemRepository) ListByDonor(ctx context.Context, donorID string) ([]*entity.FoodItem, error) {
	return r.filter(func(item *entity.FoodItem) bool { return item.DonorID == donorID }), nil
}

func (r *foodItemRepository) filter(keep func(*entity.FoodItem) bool) []*entity.FoodItem {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*entity.FoodItem
	for _, item := range r.s.foodItems {
		item := copyFoodItem(item)
		if keep(&item) {
			items = append(items, &item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (r *foodItemRepository) MarkReserved(ctx context.Context, id, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("foodItems.MarkReserved"); err != nil {
		return err
	}
	item, ok := r.s.foodItems[id]
	if !ok {
		return errors.NotFound("Food item", nil)
	}
	markReserved(&item, userID, at)
	r.s.foodItems[id] = item
	return nil
}

func markReserved(item *entity.FoodItem, userID string, at time.Time) {
	item.Status = entity.FoodReserved
	item.ReservedBy = userID
	item.ReservedAt = &at
	item.UpdatedAt = at
}

func (r *foodItemRepository) DeleteByDonor(ctx context.Context, donorID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("foodItems.DeleteByDonor"); err != nil {
		return 0, err
	}
	n := 0
	for id, item := range r.s.foodItems {
		if item.DonorID == donorID {
			delete(r.s.foodItems, id)
			n++
		}
	}
	return n, nil
}

type reservationRepository struct{ s *Store }

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("reservations.Create"); err != nil {
		return err
	}
	reservation.ID = newID()
	r.s.reservations[reservation.ID] = *reservation
	return nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var reservations []*entity.Reservation
	for _, reservation := range r.s.reservations {
		if reservation.UserID == userID {
			reservation := reservation
			reservations = append(reservations, &reservation)
		}
	}
	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt.After(reservations[j].CreatedAt)
	})
	return reservations, nil
}

func (r *reservationRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("reservations.DeleteByUser"); err != nil {
		return 0, err
	}
	n := 0
	for id, reservation := range r.s.reservations {
		if reservation.UserID == userID {
			delete(r.s.reservations, id)
			n++
		}
	}
	return n, nil
}

type activityRepository struct{ s *Store }

func (r *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("activities.Create"); err != nil {
		return err
	}
	activity.ID = newID()
	r.s.activities[activity.ID] = *activity
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var activities []*entity.Activity
	for _, activity := range r.s.activities {
		if activity.UserID == userID {
			activity := activity
			activities = append(activities, &activity)
		}
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	return activities, nil
}

func (r *activityRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("activities.DeleteByUser"); err != nil {
		return 0, err
	}
	n := 0
	for id, activity := range r.s.activities {
		if activity.UserID == userID {
			delete(r.s.activities, id)
			n++
		}
	}
	return n, nil
}

type reserver struct{ s *Store }

// Reserve checks availability and applies every write under the store lock.
func (r *reserver) Reserve(ctx context.Context, plan *repository.ReservationPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("reserver.Reserve"); err != nil {
		return err
	}

	item, ok := r.s.foodItems[plan.FoodItemID]
	if !ok {
		return errors.NotFound("Food item", nil)
	}
	if item.Status != entity.FoodAvailable {
		return errors.Conflict("Food item is no longer available", nil)
	}

	markReserved(&item, plan.ReservedBy, plan.ReservedAt)
	r.s.foodItems[item.ID] = item

	plan.Reservation.ID = newID()
	r.s.reservations[plan.Reservation.ID] = *plan.Reservation

	plan.Chat.ID = newID()
	r.s.chats[plan.Chat.ID] = copyChat(*plan.Chat)

	plan.SystemMessage.ID = newID()
	r.s.appendMessage(plan.Chat.ID, *plan.SystemMessage)
	return nil
}

type purger struct{ s *Store }

func (p *purger) Purge(ctx context.Context, collection string) (int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var n int
	switch collection {
	case "users":
		n = len(p.s.users)
		p.s.users = make(map[string]entity.User)
	case "foodItems":
		n = len(p.s.foodItems)
		p.s.foodItems = make(map[string]entity.FoodItem)
	case "chats":
		n = len(p.s.chats)
		p.s.chats = make(map[string]entity.Chat)
	case "activities":
		n = len(p.s.activities)
		p.s.activities = make(map[string]entity.Activity)
	case "reservations":
		n = len(p.s.reservations)
		p.s.reservations = make(map[string]entity.Reservation)
	}
	return n, nil
}

func copyUser(u entity.User) entity.User {
	u.Ratings = append([]int(nil), u.Ratings...)
	u.RatingComments = append([]entity.RatingComment(nil), u.RatingComments...)
	if u.AverageRating != nil {
		avg := *u.AverageRating
		u.AverageRating = &avg
	}
	if u.Location.Coordinates != nil {
		c := *u.Location.Coordinates
		u.Location.Coordinates = &c
	}
	return u
}

func copyFoodItem(item entity.FoodItem) entity.FoodItem {
	item.DietaryInfo = append([]string(nil), item.DietaryInfo...)
	if item.ReservedAt != nil {
		at := *item.ReservedAt
		item.ReservedAt = &at
	}
	return item
}

func copyChat(c entity.Chat) entity.Chat {
	participants := make(map[string]bool, len(c.Participants))
	for k, v := range c.Participants {
		participants[k] = v
	}
	c.Participants = participants
	if c.LastMessage != nil {
		last := *c.LastMessage
		c.LastMessage = &last
	}
	return c
}
