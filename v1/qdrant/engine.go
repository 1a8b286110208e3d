package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/qdrant-gateway/v1/localstore"
)

//go:generate mockgen -source=engine.go -destination=mock_engine.go -package=qdrant

// engine is the slice of the Qdrant API the gateway relies on.
// *qdrant.Client satisfies it for Server and Cloud mode and
// *localstore.Store for Local mode.
type engine interface {
	ListCollections(ctx context.Context) ([]string, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Get(ctx context.Context, request *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error)
	Delete(ctx context.Context, request *qdrant.DeletePoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

var (
	_ engine = (*qdrant.Client)(nil)
	_ engine = (*localstore.Store)(nil)
)

type dialFunc func(ctx context.Context, mode ConnectionMode, p ConnectParams, cfg *Config) (engine, error)

// dial opens the handle for the resolved mode. It does not probe it.
func dial(ctx context.Context, mode ConnectionMode, p ConnectParams, cfg *Config) (engine, error) {
	if mode == ModeLocal {
		store, err := localstore.Open(ctx, p.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("[Qdrant] failed to open local store: %w", err)
		}
		return store, nil
	}

	ep, err := p.remoteEndpoint()
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   ep.host,
		Port:                   ep.port,
		APIKey:                 p.APIKey,
		UseTLS:                 ep.useTLS,
		PoolSize:               cfg.PoolSize,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}
	return client, nil
}
