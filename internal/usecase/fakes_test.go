package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodshare/internal/adapter/repository/memory"
	"foodshare/internal/domain/entity"
	"foodshare/internal/infrastructure/cache"
	"foodshare/internal/session"
	"foodshare/pkg/errors"
)

type fakeAccount struct {
	uid         string
	email       string
	password    string
	displayName string
}

type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount
	revoked  map[string]int
	deleted  []string
	failOn   map[string]error
	nextUID  int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: make(map[string]*fakeAccount),
		revoked:  make(map[string]int),
		failOn:   make(map[string]error),
	}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password string) (*session.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["CreateUser"]; err != nil {
		return nil, err
	}
	for _, a := range f.accounts {
		if a.email == email {
			return nil, errors.Conflict("Email is already registered", nil)
		}
	}
	f.nextUID++
	a := &fakeAccount{uid: fmt.Sprintf("uid-%d", f.nextUID), email: email, password: password}
	f.accounts[a.uid] = a
	return &session.Identity{UID: a.uid, Email: email}, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*session.Identity, *session.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.email == email && a.password == password {
			token := "token-" + a.uid
			return &session.Identity{
					UID:         a.uid,
					Email:       a.email,
					DisplayName: a.displayName,
					Token:       token,
					ExpiresAt:   time.Now().Add(time.Hour),
				}, &session.Tokens{
					IDToken:      token,
					RefreshToken: "refresh-" + a.uid,
					ExpiresIn:    3600,
				}, nil
		}
	}
	return nil, nil, errors.Unauthorized("Invalid email or password", nil)
}

func (f *fakeIdentity) VerifyIDToken(ctx context.Context, idToken string) (*session.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[strings.TrimPrefix(idToken, "token-")]
	if !ok || !strings.HasPrefix(idToken, "token-") {
		return nil, errors.Unauthorized("Invalid or expired token", nil)
	}
	return &session.Identity{
		UID:         a.uid,
		Email:       a.email,
		DisplayName: a.displayName,
		Token:       idToken,
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeIdentity) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["UpdateDisplayName"]; err != nil {
		return err
	}
	a, ok := f.accounts[uid]
	if !ok {
		return errors.NotFound("Account", nil)
	}
	a.displayName = displayName
	return nil
}

func (f *fakeIdentity) RevokeSessions(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[uid]++
	return nil
}

func (f *fakeIdentity) DeleteAccount(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[uid]; !ok {
		return errors.NotFound("Account", nil)
	}
	delete(f.accounts, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

// harness wires every use case to one in-memory store.
type harness struct {
	store        *memory.Store
	identity     *fakeIdentity
	denylist     cache.TokenDenylist
	sessions     *SessionUseCase
	auth         *AuthUseCase
	users        *UserUseCase
	listings     *ListingUseCase
	reservations *ReservationUseCase
	chats        *ChatUseCase
	activities   *ActivityUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	identity := newFakeIdentity()
	denylist := cache.NewMemoryDenylist()

	sessions := NewSessionUseCase(identity, denylist, store.Users(), store.FoodItems(), store.Chats(), store.Activities(), store.Reservations())
	return &harness{
		store:        store,
		identity:     identity,
		denylist:     denylist,
		sessions:     sessions,
		auth:         NewAuthUseCase(store.Users(), identity, sessions),
		users:        NewUserUseCase(store.Users(), identity),
		listings:     NewListingUseCase(store.FoodItems(), store.Users(), store.Activities()),
		reservations: NewReservationUseCase(store.FoodItems(), store.Reservations(), store.Chats(), nil, nil),
		chats:        NewChatUseCase(store.Chats(), store.Users(), store.Activities(), nil),
		activities:   NewActivityUseCase(store.FoodItems(), store.Activities()),
	}
}

// signUp registers a user and returns an authenticated session for them.
func (h *harness) signUp(t *testing.T, name string) *session.Session {
	t.Helper()
	ctx := context.Background()
	email := strings.ToLower(name) + "@example.com"

	result, err := h.auth.SignUp(ctx, SignUpInput{
		Name:            name,
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Address:         name + " Street 1",
		PhoneNumber:     "555-0100",
	})
	require.NoError(t, err)

	sess, err := h.sessions.Authenticate(ctx, result.Tokens.IDToken)
	require.NoError(t, err)
	return sess
}

func (h *harness) list(t *testing.T, donor *session.Session, title string, category entity.FoodCategory) *entity.FoodItem {
	t.Helper()
	item, err := h.listings.CreateListing(context.Background(), donor, CreateListingInput{
		Title:       title,
		Description: "Fresh from this morning",
		Quantity:    "2 loaves",
		ExpiryDate:  time.Now().Add(48 * time.Hour),
		Category:    category,
		Location:    "Main St",
	})
	require.NoError(t, err)
	return item
}

type denyAll struct{ wait time.Duration }

func (d denyAll) Allow(userID, action string) (bool, time.Duration) { return false, d.wait }
