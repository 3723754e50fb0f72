package ddbclear

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTableName is returned when no table name is given.
	ErrEmptyTableName = errors.New("ddbclear: table name is empty")

	// ErrNoKeyAttributes is returned when the key attribute set is empty.
	ErrNoKeyAttributes = errors.New("ddbclear: no key attributes")

	// ErrInvalidMode is returned by Simulate for an unknown billing mode.
	ErrInvalidMode = errors.New("ddbclear: invalid DynamoDB mode")
)

// ScanError reports a failed page fetch. No batch is dispatched once a
// scan fails.
type ScanError struct {
	Table string
	Page  int
	Err   error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("ddbclear: scan %s page %d: %s", e.Table, e.Page, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// BatchError reports the first batched delete that failed. Other batches
// may have completed before or after it.
type BatchError struct {
	Table string
	Batch int
	Size  int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("ddbclear: batch delete %s batch %d (%d keys): %s", e.Table, e.Batch, e.Size, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// UnprocessedError is returned by Client.BatchDelete when DynamoDB still
// reports unprocessed keys after every retry.
type UnprocessedError struct {
	Table string
	Keys  []Key
}

func (e *UnprocessedError) Error() string {
	return fmt.Sprintf("ddbclear: %d keys left unprocessed in %s", len(e.Keys), e.Table)
}
