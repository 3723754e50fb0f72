package testingutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const (
	DEFAULT_FAKE_PAGE_SIZE = 10
	FAKE_BATCH_WRITE_LIMIT = 25
)

// FakeDynamoDB is an in-memory stand-in for the Scan, BatchWriteItem and
// DescribeTable calls of *dynamodb.Client. It pages like DynamoDB does: a
// full page always carries a LastEvaluatedKey, even when nothing follows.
type FakeDynamoDB struct {
	// PageSize is used when a Scan has no Limit.
	PageSize int

	// ScanHook runs before every Scan. A non-nil error fails the call.
	ScanHook func(call int, input *dynamodb.ScanInput) error

	// BatchWriteHook runs before every BatchWriteItem, outside the lock, so
	// it may block. A non-nil error fails the call.
	BatchWriteHook func(ctx context.Context, call int, input *dynamodb.BatchWriteItemInput) error

	// Unprocessed returns how many trailing requests of a call are handed
	// back as UnprocessedItems instead of being applied.
	Unprocessed func(call int) int

	mu         sync.Mutex
	tables     map[string]*fakeTable
	scanCalls  int
	batchCalls int
	batchSizes []int
}

type fakeTable struct {
	name  string
	keys  []string
	mode  types.BillingMode
	items map[string]map[string]types.AttributeValue
}

func NewFakeDynamoDB() *FakeDynamoDB {
	return &FakeDynamoDB{
		PageSize: DEFAULT_FAKE_PAGE_SIZE,
		tables:   map[string]*fakeTable{},
	}
}

// CreateTable registers an empty table. keys is the key schema, hash key
// first.
func (f *FakeDynamoDB) CreateTable(name string, keys []string, mode types.BillingMode) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tables[name] = &fakeTable{
		name:  name,
		keys:  keys,
		mode:  mode,
		items: map[string]map[string]types.AttributeValue{},
	}
}

func (f *FakeDynamoDB) Put(table string, item map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tables[table]
	if !ok {
		return resourceNotFound(table)
	}
	id, err := t.keyID(item)
	if err != nil {
		return err
	}
	t.items[id] = item

	return nil
}

// PutStrings stores n items whose single string key attr is
// fmt.Sprintf(format, i).
func (f *FakeDynamoDB) PutStrings(table, attr, format string, n int) error {
	for i := 0; i < n; i++ {
		err := f.Put(table, map[string]types.AttributeValue{
			attr:   &types.AttributeValueMemberS{Value: fmt.Sprintf(format, i)},
			"data": &types.AttributeValueMemberS{Value: "payload"},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *FakeDynamoDB) Count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.tables[table]; ok {
		return len(t.items)
	}

	return 0
}

func (f *FakeDynamoDB) ScanCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.scanCalls
}

func (f *FakeDynamoDB) BatchWriteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.batchCalls
}

// BatchSizes returns the request count of every BatchWriteItem call, sorted
// in descending order.
func (f *FakeDynamoDB) BatchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	sizes := append([]int(nil), f.batchSizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	return sizes
}

func (f *FakeDynamoDB) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scanCalls += 1
	if f.ScanHook != nil {
		if err := f.ScanHook(f.scanCalls, params); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, ok := f.tables[aws.ToString(params.TableName)]
	if !ok {
		return nil, resourceNotFound(aws.ToString(params.TableName))
	}

	ids := make([]string, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		startID, err := t.keyID(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(ids, startID)
		if start < len(ids) && ids[start] == startID {
			start += 1
		}
	}

	limit := f.PageSize
	if params.Limit != nil {
		limit = int(*params.Limit)
	}
	if limit < 1 {
		limit = DEFAULT_FAKE_PAGE_SIZE
	}

	projection := parseProjection(params.ProjectionExpression, params.ExpressionAttributeNames)

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:] {
		if len(out.Items) == limit {
			break
		}
		out.Items = append(out.Items, project(t.items[id], projection))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count

	if len(out.Items) == limit {
		last := t.items[ids[start+limit-1]]
		out.LastEvaluatedKey = project(last, t.keys)
	}

	return out, nil
}

func (f *FakeDynamoDB) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	f.batchCalls += 1
	call := f.batchCalls
	total := 0
	for _, wreqs := range params.RequestItems {
		total += len(wreqs)
	}
	f.batchSizes = append(f.batchSizes, total)
	f.mu.Unlock()

	if f.BatchWriteHook != nil {
		if err := f.BatchWriteHook(ctx, call, params); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if total == 0 || total > FAKE_BATCH_WRITE_LIMIT {
		return nil, &smithy.GenericAPIError{
			Code:    "ValidationException",
			Message: fmt.Sprintf("Too many items requested for the BatchWriteItem call: %d", total),
		}
	}

	for name, wreqs := range params.RequestItems {
		t, ok := f.tables[name]
		if !ok {
			return nil, resourceNotFound(name)
		}
		for _, wreq := range wreqs {
			if err := t.validate(wreq); err != nil {
				return nil, err
			}
		}
	}

	out := &dynamodb.BatchWriteItemOutput{
		UnprocessedItems: map[string][]types.WriteRequest{},
	}
	for name, wreqs := range params.RequestItems {
		t := f.tables[name]

		skip := 0
		if f.Unprocessed != nil {
			skip = f.Unprocessed(call)
		}
		if skip > len(wreqs) {
			skip = len(wreqs)
		}
		applied, unprocessed := wreqs[:len(wreqs)-skip], wreqs[len(wreqs)-skip:]

		for _, wreq := range applied {
			switch {
			case wreq.DeleteRequest != nil:
				id, _ := t.keyID(wreq.DeleteRequest.Key)
				delete(t.items, id)
			case wreq.PutRequest != nil:
				id, _ := t.keyID(wreq.PutRequest.Item)
				t.items[id] = wreq.PutRequest.Item
			}
		}
		if len(unprocessed) > 0 {
			out.UnprocessedItems[name] = unprocessed
		}
	}

	return out, nil
}

func (f *FakeDynamoDB) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tables[aws.ToString(params.TableName)]
	if !ok {
		return nil, resourceNotFound(aws.ToString(params.TableName))
	}

	desc := &types.TableDescription{
		TableName:   aws.String(t.name),
		TableStatus: types.TableStatusActive,
		ItemCount:   aws.Int64(int64(len(t.items))),
		BillingModeSummary: &types.BillingModeSummary{
			BillingMode: t.mode,
		},
	}
	for i, key := range t.keys {
		keyType := types.KeyTypeHash
		if i > 0 {
			keyType = types.KeyTypeRange
		}
		desc.KeySchema = append(desc.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(key),
			KeyType:       keyType,
		})
	}

	return &dynamodb.DescribeTableOutput{Table: desc}, nil
}

func (t *fakeTable) validate(wreq types.WriteRequest) error {
	switch {
	case wreq.DeleteRequest != nil:
		key := wreq.DeleteRequest.Key
		if len(key) != len(t.keys) {
			return schemaMismatch()
		}
		if _, err := t.keyID(key); err != nil {
			return err
		}
	case wreq.PutRequest != nil:
		if _, err := t.keyID(wreq.PutRequest.Item); err != nil {
			return err
		}
	default:
		return &smithy.GenericAPIError{Code: "ValidationException", Message: "empty write request"}
	}

	return nil
}

func (t *fakeTable) keyID(item map[string]types.AttributeValue) (string, error) {
	parts := make([]string, 0, len(t.keys))
	for _, key := range t.keys {
		av, ok := item[key]
		if !ok {
			return "", schemaMismatch()
		}
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			parts = append(parts, "S:"+v.Value)
		case *types.AttributeValueMemberN:
			parts = append(parts, "N:"+v.Value)
		case *types.AttributeValueMemberB:
			parts = append(parts, fmt.Sprintf("B:%x", v.Value))
		default:
			return "", schemaMismatch()
		}
	}

	return strings.Join(parts, "|"), nil
}

func parseProjection(expr *string, names map[string]string) []string {
	if expr == nil || *expr == "" {
		return nil
	}

	var attrs []string
	for _, part := range strings.Split(*expr, ",") {
		part = strings.TrimSpace(part)
		if name, ok := names[part]; ok {
			part = name
		}
		attrs = append(attrs, part)
	}

	return attrs
}

func project(item map[string]types.AttributeValue, attrs []string) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	if attrs == nil {
		for k, v := range item {
			out[k] = v
		}
		return out
	}
	for _, attr := range attrs {
		if v, ok := item[attr]; ok {
			out[attr] = v
		}
	}

	return out
}

func resourceNotFound(table string) error {
	return &types.ResourceNotFoundException{
		Message: aws.String("Requested resource not found: Table: " + table + " not found"),
	}
}

func schemaMismatch() error {
	return &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "The provided key element does not match the schema",
	}
}
