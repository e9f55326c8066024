package firebase

import (
	"context"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Config identifies the Firebase project backing the marketplace.
type Config struct {
	ProjectID       string
	CredentialsPath string
	StorageBucket   string
}

// App holds the initialized Firebase app with its Firestore and Auth clients.
type App struct {
	FirebaseApp *firebase.App
	Firestore   *firestore.Client
	Auth        *auth.Client
}

var (
	initOnce sync.Once
	shared   *App
	initErr  error
)

// Init initializes the Firebase app once per process. Later calls return the
// same clients (or the same error).
func Init(ctx context.Context, cfg Config) (*App, error) {
	initOnce.Do(func() {
		shared, initErr = newApp(ctx, cfg)
	})
	return shared, initErr
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("Firebase project id not provided")
	}
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		if _, err := os.Stat(cfg.CredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("Firebase credentials file not found at %s", cfg.CredentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	fs, err := fbApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info().Str("project", cfg.ProjectID).Msg("Firebase app, firestore and auth clients initialized")
	return &App{FirebaseApp: fbApp, Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (a *App) Close() error {
	if a == nil || a.Firestore == nil {
		return nil
	}
	return a.Firestore.Close()
}
