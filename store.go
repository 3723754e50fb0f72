package ddbclear

import (
	"context"
)

// Store is what the Eraser needs from a key-value store.
type Store interface {
	// ScanPages opens a lazy scan of table. A non-empty projection limits
	// the returned attributes.
	ScanPages(table string, projection []string) Pager

	// BatchDelete removes keys from table in one request. len(keys) must not
	// exceed the store's write batch limit.
	BatchDelete(ctx context.Context, table string, keys []Key) error
}

// Pager walks scan pages in order. A scan is not resumable: open a new
// Pager to start over.
type Pager interface {
	HasMorePages() bool
	NextPage(ctx context.Context) (*Page, error)
}

// Page is one scan response. A nil Cursor marks the last page.
type Page struct {
	Items  []Item
	Cursor Key
}
