package database

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// ObservedStore decorates a Store with slow-call logging and, for backends
// without their own driver instrumentation, New Relic datastore segments.
type ObservedStore struct {
	Store

	backend       Backend
	slowThreshold time.Duration
	log           *zerolog.Logger
}

// NewObservedStore wraps store. A zero threshold disables slow-call logging.
func NewObservedStore(store Store, backend Backend, slowThreshold time.Duration, logger *zerolog.Logger) *ObservedStore {
	return &ObservedStore{
		Store:         store,
		backend:       backend,
		slowThreshold: slowThreshold,
		log:           logger,
	}
}

// Unwrap returns the decorated store.
func (s *ObservedStore) Unwrap() Store {
	return s.Store
}

// observe starts timing an operation; the returned func ends it.
func (s *ObservedStore) observe(ctx context.Context, operation, collection string) func(err error) {
	start := time.Now()

	var segment *newrelic.DatastoreSegment
	// nrpgx5 already traces the Postgres backend.
	if txn := newrelic.FromContext(ctx); txn != nil && s.backend != BackendPostgres {
		product := newrelic.DatastoreMongoDB
		if s.backend == BackendMemory {
			product = newrelic.DatastoreProduct("Memory")
		}
		segment = &newrelic.DatastoreSegment{
			StartTime:    txn.StartSegmentNow(),
			Product:      product,
			Collection:   collection,
			Operation:    operation,
			DatabaseName: s.Name(),
		}
	}

	return func(err error) {
		if segment != nil {
			segment.End()
		}

		elapsed := time.Since(start)
		if err != nil {
			s.log.Debug().Err(err).
				Str("operation", operation).
				Str("collection", collection).
				Dur("duration", elapsed).
				Msg("document store call failed")
			return
		}
		if s.slowThreshold > 0 && elapsed > s.slowThreshold {
			s.log.Warn().
				Str("operation", operation).
				Str("collection", collection).
				Dur("duration", elapsed).
				Dur("threshold", s.slowThreshold).
				Msg("slow document store call")
		}
	}
}

func (s *ObservedStore) InsertOne(ctx context.Context, collection string, doc Document) (id string, err error) {
	done := s.observe(ctx, "insert", collection)
	defer func() { done(err) }()
	return s.Store.InsertOne(ctx, collection, doc)
}

func (s *ObservedStore) Find(ctx context.Context, collection string, limit int64) (docs []Document, err error) {
	done := s.observe(ctx, "find", collection)
	defer func() { done(err) }()
	return s.Store.Find(ctx, collection, limit)
}

func (s *ObservedStore) ListCollectionNames(ctx context.Context) (names []string, err error) {
	done := s.observe(ctx, "listCollections", "")
	defer func() { done(err) }()
	return s.Store.ListCollectionNames(ctx)
}
