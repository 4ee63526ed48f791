package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
)

// DefaultLogKey is the store key holding the whole submission log.
const DefaultLogKey = "siskamlingSubmissions"

// KVSubmissionLog keeps the submission log as one JSON value in a key-value
// store. Appends are read-modify-write; concurrent writers in other
// processes follow last-write-wins.
type KVSubmissionLog struct {
	store   ports.KeyValueStore
	key     string
	timeout time.Duration
	logger  *zap.Logger

	mu sync.Mutex
}

var _ ports.SubmissionLog = (*KVSubmissionLog)(nil)

func NewKVSubmissionLog(store ports.KeyValueStore, key string, timeout time.Duration, logger *zap.Logger) *KVSubmissionLog {
	if key == "" {
		key = DefaultLogKey
	}
	return &KVSubmissionLog{
		store:   store,
		key:     key,
		timeout: timeout,
		logger:  logger.Named("submission-log"),
	}
}

func (r *KVSubmissionLog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *KVSubmissionLog) Load(ctx context.Context) ([]domain.SubmissionRecord, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load submission log: %w", err)
	}
	if !ok {
		return nil, nil
	}
	records, err := DecodeLog(raw)
	if err != nil {
		return nil, &domain.MalformedLogError{Key: r.key, Err: err}
	}
	return records, nil
}

// Append adds record at the end of the log. The id is raised above the
// largest stored id so records from other processes or a clock that stepped
// back never collide. A stored value that cannot be decoded is replaced by a
// log holding only record.
func (r *KVSubmissionLog) Append(ctx context.Context, record domain.SubmissionRecord) (domain.SubmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.Load(ctx)
	if err != nil {
		var malformed *domain.MalformedLogError
		if !errors.As(err, &malformed) {
			return domain.SubmissionRecord{}, err
		}
		r.logger.Warn("stored submission log is malformed, starting a new one", zap.Error(err))
		records = nil
	}

	if last := domain.LastID(records); record.ID <= last {
		r.logger.Debug("submission id raised past stored log", zap.Int64("id", record.ID), zap.Int64("last_id", last))
		record.ID = last + 1
	}

	records = append(records, record)
	raw, err := EncodeLog(records)
	if err != nil {
		return domain.SubmissionRecord{}, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return domain.SubmissionRecord{}, fmt.Errorf("write submission log: %w", err)
	}
	r.logger.Debug("submission appended", zap.Int64("id", record.ID), zap.Int("log_length", len(records)))
	return record, nil
}
