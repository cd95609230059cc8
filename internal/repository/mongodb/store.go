package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/repository/snapshot"
)

// ErrNotFound signals an update against a record that no longer exists.
// Lookups of missing ids return a boolean instead; only writes use this.
var ErrNotFound = errors.New("record not found")

const defaultPollInterval = 15 * time.Second

// Document is the contract every stored entity satisfies.
type Document interface {
	DocumentID() string
	Validate() error
}

// Options configures a Store for one entity collection.
type Options[T Document] struct {
	// Entity names the remote collection and the snapshot cache key.
	Entity string
	// OwnerID scopes every read and write to one tenant partition.
	OwnerID string
	// Prepare normalizes a record before validation on create and update,
	// e.g. recomputing invoice totals from line items.
	Prepare func(*T)
	// Less orders the snapshot after every refresh and mutation.
	Less func(a, b T) bool
	// Seed supplies first-run demo records when both the remote collection
	// and the local cache are empty.
	Seed func() []T
	// PollInterval is the refresh period when change streams are unavailable.
	PollInterval time.Duration
}

// Store keeps the authoritative in-memory snapshot for one entity type and
// synchronizes it with a remote document collection. Writes are issued to the
// remote collection and the snapshot catches up through the change feed; when
// the remote store is unreachable the store degrades to purely local state
// mirrored into the snapshot cache.
type Store[T Document] struct {
	opts   Options[T]
	client *Client
	cache  *snapshot.Cache
	logger *zap.Logger

	mu       sync.RWMutex
	records  []T
	degraded bool

	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStore builds a store. client may be nil, in which case the store starts
// directly in degraded local mode. cache may be nil when no local mirror is
// available.
func NewStore[T Document](client *Client, cache *snapshot.Cache, logger *zap.Logger, opts Options[T]) *Store[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Store[T]{
		opts:   opts,
		client: client,
		cache:  cache,
		logger: logger,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start performs the initial load and launches the change-feed watcher.
func (s *Store[T]) Start(ctx context.Context) error {
	if s.client == nil {
		s.mu.Lock()
		s.degraded = true
		s.records = s.loadLocal()
		s.sortLocked()
		s.mu.Unlock()
		s.logger.Warn("remote store unavailable, starting in degraded local mode",
			zap.String("entity", s.opts.Entity))
		close(s.done)
		return nil
	}

	recs, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.degraded = true
		s.records = s.loadLocal()
		s.sortLocked()
		s.mu.Unlock()
		s.logger.Warn("initial remote load failed, degraded local mode",
			zap.String("entity", s.opts.Entity), zap.Error(err))
	} else {
		if len(recs) == 0 {
			recs = s.firstRun(ctx)
		}
		s.mu.Lock()
		s.records = recs
		s.sortLocked()
		s.mu.Unlock()
		s.persistCache()
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.watch(watchCtx)

	return nil
}

// Close stops the change-feed watcher.
func (s *Store[T]) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

// Degraded reports whether the store is serving purely local state.
func (s *Store[T]) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// List returns a copy of the current snapshot.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given identity key. Missing ids are a
// normal negative result, not an error.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.DocumentID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Create validates the record and appends it to the remote collection. The
// snapshot catches up via the change feed; in degraded mode the record is
// applied locally right away.
func (s *Store[T]) Create(ctx context.Context, rec T) error {
	if s.opts.Prepare != nil {
		s.opts.Prepare(&rec)
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.DocumentID() == "" {
		return errors.New("record is missing an identity key")
	}

	if s.isDegraded() {
		s.applyLocal(func(records []T) []T { return append(records, rec) })
		return nil
	}

	if _, err := s.coll().InsertOne(ctx, rec); err != nil {
		s.degrade("create", err)
		s.applyLocal(func(records []T) []T { return append(records, rec) })
		return nil
	}
	s.nudge()
	return nil
}

// Update validates the record and issues a full-field overwrite of the remote
// document with the same identity key.
func (s *Store[T]) Update(ctx context.Context, rec T) error {
	if s.opts.Prepare != nil {
		s.opts.Prepare(&rec)
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	id := rec.DocumentID()
	if id == "" {
		return errors.New("record is missing an identity key")
	}

	if s.isDegraded() {
		return s.updateLocal(rec)
	}

	filter := bson.M{"_id": id, "owner_id": s.opts.OwnerID}
	res, err := s.coll().ReplaceOne(ctx, filter, rec)
	if err != nil {
		s.degrade("update", err)
		return s.updateLocal(rec)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.nudge()
	return nil
}

// Delete removes the record with the given identity key. Deleting a missing
// record is a no-op.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if s.isDegraded() {
		s.applyLocal(func(records []T) []T { return removeByID(records, id) })
		return nil
	}

	filter := bson.M{"_id": id, "owner_id": s.opts.OwnerID}
	if _, err := s.coll().DeleteOne(ctx, filter); err != nil {
		s.degrade("delete", err)
		s.applyLocal(func(records []T) []T { return removeByID(records, id) })
		return nil
	}
	s.nudge()
	return nil
}

func (s *Store[T]) coll() *mongo.Collection {
	return s.client.Collection(s.opts.Entity)
}

func (s *Store[T]) isDegraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Store[T]) degrade(op string, err error) {
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
	s.logger.Error("remote operation failed, falling back to local state",
		zap.String("entity", s.opts.Entity), zap.String("op", op), zap.Error(err))
}

func (s *Store[T]) updateLocal(rec T) error {
	found := false
	s.applyLocal(func(records []T) []T {
		for i := range records {
			if records[i].DocumentID() == rec.DocumentID() {
				records[i] = rec
				found = true
				break
			}
		}
		return records
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.DocumentID())
	}
	return nil
}

func (s *Store[T]) applyLocal(mutate func([]T) []T) {
	s.mu.Lock()
	s.records = mutate(s.records)
	s.sortLocked()
	s.mu.Unlock()
	s.persistCache()
}

func (s *Store[T]) sortLocked() {
	if s.opts.Less != nil {
		sort.SliceStable(s.records, func(i, j int) bool {
			return s.opts.Less(s.records[i], s.records[j])
		})
	}
}

func removeByID[T Document](records []T, id string) []T {
	out := records[:0]
	for _, rec := range records {
		if rec.DocumentID() != id {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store[T]) fetch(ctx context.Context) ([]T, error) {
	cursor, err := s.client.Collection(s.opts.Entity).Find(ctx, bson.M{"owner_id": s.opts.OwnerID})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.opts.Entity, err)
	}
	var recs []T
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.opts.Entity, err)
	}
	return recs, nil
}

// firstRun decides what an empty remote collection should hold: the cached
// local snapshot when one survives, otherwise the demo seed. The chosen
// records are pushed to the remote collection so every session converges.
func (s *Store[T]) firstRun(ctx context.Context) []T {
	recs := s.loadCached()
	if len(recs) == 0 && s.opts.Seed != nil {
		recs = s.opts.Seed()
	}
	if len(recs) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, rec)
	}
	if _, err := s.client.Collection(s.opts.Entity).InsertMany(ctx, docs); err != nil {
		s.logger.Warn("failed to push first-run records to remote store",
			zap.String("entity", s.opts.Entity), zap.Error(err))
	}
	return recs
}

func (s *Store[T]) loadLocal() []T {
	recs := s.loadCached()
	if len(recs) == 0 && s.opts.Seed != nil {
		recs = s.opts.Seed()
	}
	return recs
}

func (s *Store[T]) loadCached() []T {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Load(s.opts.Entity)
	if err != nil {
		s.logger.Warn("failed to load snapshot cache", zap.String("entity", s.opts.Entity), zap.Error(err))
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		s.logger.Warn("corrupt snapshot cache entry", zap.String("entity", s.opts.Entity), zap.Error(err))
		return nil
	}
	return recs
}

func (s *Store[T]) persistCache() {
	if s.cache == nil {
		return
	}
	s.mu.RLock()
	data, err := json.Marshal(s.records)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Warn("failed to encode snapshot", zap.String("entity", s.opts.Entity), zap.Error(err))
		return
	}
	if err := s.cache.Save(s.opts.Entity, data); err != nil {
		s.logger.Warn("failed to persist snapshot cache", zap.String("entity", s.opts.Entity), zap.Error(err))
	}
}

// nudge asks the watcher to refresh soon. Only the polling loop listens; with
// a live change stream the write arrives as a regular feed event.
func (s *Store[T]) nudge() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// watch keeps the snapshot synchronized with the remote collection. Change
// streams need a replica set; standalone servers fall back to polling.
func (s *Store[T]) watch(ctx context.Context) {
	defer close(s.done)

	stream, err := s.client.Collection(s.opts.Entity).Watch(ctx, bson.A{})
	if err != nil {
		s.logger.Info("change streams unavailable, polling for updates",
			zap.String("entity", s.opts.Entity),
			zap.Duration("interval", s.opts.PollInterval),
			zap.Error(err))
		s.poll(ctx)
		return
	}
	defer func() { _ = stream.Close(context.Background()) }()

	for stream.Next(ctx) {
		// Any event invalidates the snapshot; reloading the scoped
		// collection is cheap at this data size and avoids decoding
		// per-event document deltas.
		s.reload(ctx)
	}

	if ctx.Err() != nil {
		return
	}
	s.logger.Warn("change stream closed, falling back to polling",
		zap.String("entity", s.opts.Entity), zap.Error(stream.Err()))
	s.poll(ctx)
}

func (s *Store[T]) poll(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reload(ctx)
		case <-s.kick:
			s.reload(ctx)
		}
	}
}

func (s *Store[T]) reload(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	recs, err := s.fetch(fetchCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.degrade("refresh", err)
		}
		return
	}

	s.mu.Lock()
	s.degraded = false
	s.records = recs
	s.sortLocked()
	s.mu.Unlock()
	s.persistCache()
}
