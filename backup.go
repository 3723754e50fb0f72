package ddbclear

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type BackupOption struct {
	TableName string
	Writer    io.Writer

	// OnPage receives the running record count after each page.
	OnPage func(count int)
}

// Backup writes every item of the table to opt.Writer as JSON Lines and
// returns how many were written.
func Backup(ctx context.Context, store Store, opt *BackupOption) (int, error) {
	if opt.TableName == "" {
		return 0, ErrEmptyTableName
	}

	pager := store.ScanPages(opt.TableName, nil)

	count := 0
	for n := 1; pager.HasMorePages(); n++ {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return count, &ScanError{Table: opt.TableName, Page: n, Err: err}
		}

		for _, item := range page.Items {
			jsonByte, err := MarshalItemJSON(item)
			if err != nil {
				return count, errors.Wrap(err, "marshal item")
			}

			if _, err := fmt.Fprintf(opt.Writer, "%s\n", jsonByte); err != nil {
				return count, err
			}
			count += 1
		}

		if opt.OnPage != nil {
			opt.OnPage(count)
		}

		if page.Cursor == nil {
			break
		}
	}

	return count, nil
}
