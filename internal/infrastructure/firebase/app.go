package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"foodshare/pkg/config"
)

// CredentialsOption prefers inline service-account JSON (production) over
// a key file on disk (local development).
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	path := cfg.FirebaseServiceAccountPath
	if path == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH must be set")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("service account file does not exist: %s", path)
	}

	log.Printf("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path), nil
}

// Clients holds the Google clients shared by the API server and the CLI.
type Clients struct {
	Auth      *FirebaseAuthClient
	Firestore *firestore.Client
	Option    option.ClientOption
}

// NewClients initializes the Firebase app, Admin auth, Identity Toolkit and
// Firestore for the configured project.
func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase Auth: %w", err)
	}

	toolkit, err := NewIdentityToolkit(ctx, cfg.FirebaseApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Identity Toolkit: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Clients{
		Auth:      NewFirebaseAuthClient(authClient, toolkit),
		Firestore: firestoreClient,
		Option:    opt,
	}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}
