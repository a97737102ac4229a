package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/svce/alumniconnect/internal/config"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

// MongoDB holds the client and database that back jobs and meetings
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	timeout  time.Duration
}

// IndexEnsurer is implemented by document repositories that own indexes
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// NewMongoDB connects to the configured deployment and verifies it with a ping
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	timeout := cfg.Mongo.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")
	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Mongo.Database),
		timeout:  timeout,
	}, nil
}

// Ping reports whether the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes of every repository, collecting all failures
func (m *MongoDB) EnsureIndexes(ctx context.Context, ensurers ...IndexEnsurer) error {
	var errs []error
	for _, e := range ensurers {
		if err := e.EnsureIndexes(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close disconnects the client
func (m *MongoDB) Close() {
	if m.Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := m.Client.Disconnect(ctx); err != nil {
		logger.Warn().Err(err).Msg("Error disconnecting from MongoDB")
	}
}
