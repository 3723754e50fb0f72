// Package ddbclear empties DynamoDB tables.
//
// An [Eraser] scans a table for its key attributes only, collects one delete
// request per item and sends them as BatchWriteItem calls of at most 25
// requests, all in flight at once:
//
//	api, err := ddbclear.NewDynamoDB(ctx, &ddbclear.DDBClientOption{})
//	client := ddbclear.NewClient(api, ddbclear.DefaultClientOption())
//	eraser := ddbclear.NewEraser(client, ddbclear.DefaultConfig(), nil)
//	err = eraser.Erase(ctx, "Users", []string{"email"})
//
// Erase fails fast. The first failed page fetch or batch is returned as a
// [*ScanError] or [*BatchError]; batches already sent are neither rolled back
// nor cancelled.
//
// Config.LimitUnit paces batches to a write-unit budget per LimitInterval
// for tables that must not be drained at full speed.
//
// [Client] is the DynamoDB implementation of [Store]. It resubmits items
// DynamoDB reports as unprocessed before giving up with an
// [*UnprocessedError].
package ddbclear
