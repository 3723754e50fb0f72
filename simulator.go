package ddbclear

import (
	"context"
)

type SimulateOpt struct {
	Table     *Table
	BatchSize int
}

type SimulateResult struct {
	Records       int
	Batches       int
	ConsumeRRU    *int
	ConsumeWRU    *int
	ConsumeRCU    *int
	ConsumeWCU    *int
	TotalItemSize int
}

// Simulate scans every item of the table and estimates what clearing it
// costs. Nothing is deleted.
func Simulate(ctx context.Context, store Store, opt *SimulateOpt) (*SimulateResult, error) {
	if opt.Table == nil || opt.Table.Name == "" {
		return nil, ErrEmptyTableName
	}
	if opt.Table.Mode != OnDemand && opt.Table.Mode != Provisioned {
		return nil, ErrInvalidMode
	}

	batchSize := opt.BatchSize
	if batchSize < 1 {
		batchSize = BATCH_WRITE_LIMIT_PER_REQ
	}

	pager := store.ScanPages(opt.Table.Name, nil)

	records, totalItemSize := 0, 0
	rusum, wusum := 0, 0
	for n := 1; pager.HasMorePages(); n++ {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &ScanError{Table: opt.Table.Name, Page: n, Err: err}
		}

		for _, item := range page.Items {
			itemResult, err := GetItemSize(item)
			if err != nil {
				return nil, err
			}

			records += 1
			totalItemSize += itemResult.Size
			rusum += itemResult.ReadUnit
			wusum += itemResult.WriteUnit
		}

		if page.Cursor == nil {
			break
		}
	}

	result := &SimulateResult{
		Records:       records,
		Batches:       batchCount(records, batchSize),
		TotalItemSize: totalItemSize,
	}

	switch opt.Table.Mode {
	case OnDemand:
		result.ConsumeRRU = &rusum
		result.ConsumeWRU = &wusum
	case Provisioned:
		result.ConsumeRCU = &rusum
		result.ConsumeWCU = &wusum
	}

	return result, nil
}
