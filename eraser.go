package ddbclear

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds configuration for the Eraser.
type Config struct {
	// BatchSize is the number of keys sent in one batched delete.
	// Default: 25 (BatchWriteItem limit)
	BatchSize int

	// Concurrency caps the number of batched deletes in flight.
	// Default: 0 (every batch is dispatched at once)
	Concurrency int

	// LimitUnit caps the estimated write units started per LimitInterval.
	// Default: 0 (no pacing)
	LimitUnit int

	// LimitInterval is the window LimitUnit applies to.
	// Default: 1s (WRITE_INTERVAL)
	LimitInterval time.Duration

	// OnBatch is called once per finished batched delete, from the goroutine
	// that ran it. It must be safe for concurrent use.
	OnBatch func(BatchResult)
}

// BatchResult describes one finished batched delete.
type BatchResult struct {
	Batch int
	Size  int
	Err   error
}

// DefaultConfig returns the settings for DynamoDB.
func DefaultConfig() Config {
	return Config{
		BatchSize:     BATCH_WRITE_LIMIT_PER_REQ,
		LimitInterval: WRITE_INTERVAL,
	}
}

func (c *Config) validate() {
	if c.BatchSize < 1 {
		c.BatchSize = BATCH_WRITE_LIMIT_PER_REQ
	}
	if c.Concurrency < 0 {
		c.Concurrency = 0
	}
	if c.LimitUnit < 0 {
		c.LimitUnit = 0
	}
	if c.LimitInterval <= 0 {
		c.LimitInterval = WRITE_INTERVAL
	}
}

// Eraser deletes every record of a table.
//
// Scan and delete are not atomic: records written while Erase runs may
// survive it.
type Eraser struct {
	store  Store
	config Config
	logger *slog.Logger
}

// NewEraser creates an Eraser. A nil logger means slog.Default().
func NewEraser(store Store, config Config, logger *slog.Logger) *Eraser {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}

	return &Eraser{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Erase deletes all records of tableName. keyAttributes must be the table's
// key schema; a mismatch is reported by the store when the batches run.
//
// It returns the first failure observed. Batches already in flight are not
// cancelled and are not waited for.
func (e *Eraser) Erase(ctx context.Context, tableName string, keyAttributes []string) error {
	keys, err := e.Collect(ctx, tableName, keyAttributes)
	if err != nil {
		return err
	}

	return e.Delete(ctx, tableName, keys)
}

// Collect scans tableName to the last page and returns the key of every
// record seen.
func (e *Eraser) Collect(ctx context.Context, tableName string, keyAttributes []string) ([]Key, error) {
	if tableName == "" {
		return nil, ErrEmptyTableName
	}
	if len(keyAttributes) == 0 {
		return nil, ErrNoKeyAttributes
	}

	pager := e.store.ScanPages(tableName, keyAttributes)

	var keys []Key
	for n := 1; pager.HasMorePages(); n++ {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &ScanError{Table: tableName, Page: n, Err: err}
		}

		for _, item := range page.Items {
			keys = append(keys, projectKey(item, keyAttributes))
		}

		e.logger.Debug("scanned page",
			"table", tableName,
			"page", n,
			"items", len(page.Items),
			"total", len(keys),
		)

		if page.Cursor == nil {
			break
		}
	}

	return keys, nil
}

// Delete removes keys from tableName in batches of Config.BatchSize, all
// running concurrently. With Config.LimitUnit set, batches start only as the
// write unit budget of each interval allows.
func (e *Eraser) Delete(ctx context.Context, tableName string, keys []Key) error {
	if tableName == "" {
		return ErrEmptyTableName
	}

	batches := partition(keys, e.config.BatchSize)
	if len(batches) == 0 {
		e.logger.Info("nothing to delete", "table", tableName)
		return nil
	}

	e.logger.Info("deleting records",
		"table", tableName,
		"keys", len(keys),
		"batches", len(batches),
	)

	var sem chan struct{}
	if e.config.Concurrency > 0 {
		sem = make(chan struct{}, e.config.Concurrency)
	}

	var limiter *unitLimiter
	if e.config.LimitUnit > 0 {
		limiter = newUnitLimiter(e.config.LimitUnit, e.config.LimitInterval)
	}

	// stop keeps queued batches from starting once one has failed.
	stop := make(chan struct{})
	var stopOnce sync.Once

	var wg sync.WaitGroup
	errs := make(chan error, len(batches))

	// remaining counts batches whose request has not finished. A failure is
	// queued on errs before the count drops.
	var remaining atomic.Int64
	remaining.Store(int64(len(batches)))

	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []Key) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-stop:
					return
				case <-ctx.Done():
					return
				}
			}

			if limiter != nil && !limiter.wait(ctx, stop, writeUnits(batch)) {
				return
			}

			err := e.store.BatchDelete(ctx, tableName, batch)
			if err != nil {
				stopOnce.Do(func() { close(stop) })
				errs <- &BatchError{Table: tableName, Batch: i, Size: len(batch), Err: err}
			}
			remaining.Add(-1)

			if e.config.OnBatch != nil {
				e.config.OnBatch(BatchResult{Batch: i, Size: len(batch), Err: err})
			}
		}(i, batch)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errs:
		e.logger.Error("batch delete failed", "table", tableName, "error", err)
		return err
	case <-done:
	case <-ctx.Done():
	}

	select {
	case err := <-errs:
		e.logger.Error("batch delete failed", "table", tableName, "error", err)
		return err
	default:
	}

	if remaining.Load() > 0 {
		return ctx.Err()
	}

	e.logger.Info("deleted records", "table", tableName, "keys", len(keys))

	return nil
}
