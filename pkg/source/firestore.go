package source

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// FirestoreConfig selects the project, database and credentials.
// CredentialsJSON wins over CredentialsFile; with neither, application
// default credentials are used.
type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string
	CredentialsJSON []byte
	CredentialsFile string
}

// Firestore reads active documents from Cloud Firestore.
type Firestore struct {
	client *firestore.Client
	logger zerolog.Logger
}

// NewFirestore connects to the configured Firestore database.
func NewFirestore(ctx context.Context, cfg FirestoreConfig) (*Firestore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	logger := log.With().Str("component", "firestore").Logger()

	var opts []option.ClientOption
	switch {
	case len(cfg.CredentialsJSON) > 0:
		logger.Info().Msg("Using service account credentials from environment")
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		logger.Info().Str("path", cfg.CredentialsFile).Msg("Using service account credentials file")
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		logger.Info().Msg("Using application default credentials")
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	logger.Info().
		Str("project", cfg.ProjectID).
		Str("database", databaseID).
		Msg("Firestore client initialized")

	return NewFirestoreFromClient(client), nil
}

// NewFirestoreFromClient wraps an existing client.
func NewFirestoreFromClient(client *firestore.Client) *Firestore {
	if client == nil {
		panic("firestore client cannot be nil")
	}
	return &Firestore{
		client: client,
		logger: log.With().Str("component", "firestore").Logger(),
	}
}

// FetchActive implements catalog.Source.
func (f *Firestore) FetchActive(ctx context.Context, collection string) ([]catalog.Document, error) {
	start := time.Now()
	snaps, err := f.client.Collection(collection).
		Where(catalog.FieldStatus, "==", catalog.StatusActive).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	docs := make([]catalog.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, catalog.Document{
			ID:     snap.Ref.ID,
			Fields: normalizeFields(snap.Data()),
		})
	}

	f.logger.Debug().
		Str("collection", collection).
		Int("documents", len(docs)).
		Dur("duration", time.Since(start)).
		Msg("Fetched active documents")

	return docs, nil
}

// Close releases the client.
func (f *Firestore) Close() error {
	return f.client.Close()
}

// normalizeFields replaces document references by their ids so that
// categoria_ref compares equal to category ids and encodes as JSON.
func normalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case *firestore.DocumentRef:
		if val == nil {
			return nil
		}
		return val.ID
	case map[string]any:
		return normalizeFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
