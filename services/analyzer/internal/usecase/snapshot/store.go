package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/redis"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	snapshotv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/snapshot/v1"
)

const (
	takenAtField     = "_taken_at"
	directionsSuffix = ":directions"
)

// Store keeps history snapshots in a Redis hash: one field per symbol with
// a JSON array of prices, plus a field holding the snapshot time. Last
// classifications live in a separate string key as a JSON object.
type Store struct {
	key         string
	dirKey      string
	logger      logger.Interface
	redisclient redis.Client
}

var _ snapshotv1.Store = (*Store)(nil)

// NewSnapshotStore creates a snapshot store writing to the hash at key.
func NewSnapshotStore(redisclient redis.Client, key string, log logger.Interface) *Store {
	return &Store{
		key:         key,
		dirKey:      key + directionsSuffix,
		redisclient: redisclient,
		logger:      log,
	}
}

// Store writes every history in the snapshot and removes symbols that are
// no longer tracked.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	existing, err := s.redisclient.HGetAll(ctx, s.key)
	if err != nil {
		return errors.NewTracer(string(errors.SnapshotLoadError)).Wrap(err)
	}

	fields := make(map[string]any, len(snapshot.Histories)+1)
	for symbol, prices := range snapshot.Histories {
		buf, err := json.Marshal(prices)
		if err != nil {
			return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
		}
		fields[symbol] = string(buf)
	}
	fields[takenAtField] = snapshot.TakenAt.UTC().Format(time.RFC3339Nano)

	if _, err := s.redisclient.HSet(ctx, s.key, fields); err != nil {
		return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
	}

	var stale []string
	for field := range existing {
		if _, ok := fields[field]; !ok {
			stale = append(stale, field)
		}
	}
	if len(stale) > 0 {
		if _, err := s.redisclient.HDel(ctx, s.key, stale...); err != nil {
			return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
		}
	}

	if err := s.storeDirections(ctx, snapshot.Directions); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "snapshot stored",
		logger.NewField("action", "store_snapshot"),
		logger.NewField("symbols", len(snapshot.Histories)),
		logger.NewField("evicted", len(stale)),
	)
	return nil
}

// LoadStore reads the snapshot back. It returns nil when the hash is empty.
// Fields that do not decode are skipped with a warning.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	values, err := s.redisclient.HGetAll(ctx, s.key)
	if err != nil {
		return nil, errors.NewTracer(string(errors.SnapshotLoadError)).Wrap(err)
	}

	if len(values) == 0 {
		s.logger.WarnContext(ctx, "no snapshot found", logger.NewField("key", s.key))
		return nil, nil
	}

	snapshot := &snapshotv1.Snapshot{Histories: make(map[string][]float64, len(values))}
	for field, raw := range values {
		if field == takenAtField {
			if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				snapshot.TakenAt = ts
			}
			continue
		}

		var prices []float64
		if err := json.Unmarshal([]byte(raw), &prices); err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable snapshot entry",
				logger.NewField("action", "load_snapshot"),
				logger.NewField("symbol", field),
			)
			continue
		}
		snapshot.Histories[field] = prices
	}

	directions, err := s.loadDirections(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Directions = directions

	s.logger.InfoContext(ctx, "snapshot loaded",
		logger.NewField("action", "load_snapshot"),
		logger.NewField("symbols", len(snapshot.Histories)),
		logger.NewField("taken_at", snapshot.TakenAt),
	)
	return snapshot, nil
}

// storeDirections removes the key when no symbol has a classification.
func (s *Store) storeDirections(ctx context.Context, directions map[string]signalv1.Direction) error {
	if len(directions) == 0 {
		if _, err := s.redisclient.Del(ctx, s.dirKey); err != nil {
			return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
		}
		return nil
	}

	buf, err := json.Marshal(directions)
	if err != nil {
		return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
	}
	if err := s.redisclient.Set(ctx, s.dirKey, string(buf), 0); err != nil {
		return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
	}
	return nil
}

// loadDirections returns nil when the key is missing or unreadable.
func (s *Store) loadDirections(ctx context.Context) (map[string]signalv1.Direction, error) {
	raw, err := s.redisclient.Get(ctx, s.dirKey)
	if err != nil {
		return nil, errors.NewTracer(string(errors.SnapshotLoadError)).Wrap(err)
	}
	if raw == "" {
		return nil, nil
	}

	var directions map[string]signalv1.Direction
	if err := json.Unmarshal([]byte(raw), &directions); err != nil {
		s.logger.WarnContext(ctx, "skipping unreadable snapshot directions",
			logger.NewField("action", "load_snapshot"),
			logger.NewField("key", s.dirKey),
		)
		return nil, nil
	}
	return directions, nil
}
