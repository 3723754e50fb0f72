package ddbclear

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

const (
	RETRY_NUMBER   = 3
	RETRY_INTERVAL = 1 * time.Second

	DEFAULT_LOCAL_REGION = "us-east-1"
)

// API is the part of *dynamodb.Client that ddbclear calls.
type API interface {
	dynamodb.ScanAPIClient
	dynamodb.DescribeTableAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type DDBClientOption struct {
	Local   string
	Region  string
	Profile string

	// Credentials replaces the default credential chain, e.g. static
	// credentials for DynamoDB Local.
	Credentials aws.CredentialsProvider
}

func checkAndFixURLSchema(endpoint string) string {
	if strings.HasPrefix(endpoint, "https://") || strings.HasPrefix(endpoint, "http://") {
		return endpoint
	}

	return "http://" + endpoint
}

// NewDynamoDB builds a DynamoDB client from the default AWS config chain.
// opt.Local points it at DynamoDB Local.
func NewDynamoDB(ctx context.Context, opt *DDBClientOption) (*dynamodb.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opt.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opt.Region))
	}
	if opt.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opt.Profile))
	}
	if opt.Credentials != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(opt.Credentials))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}

	var optFns []func(*dynamodb.Options)
	if opt.Local != "" {
		endpoint := checkAndFixURLSchema(opt.Local)
		if cfg.Region == "" {
			cfg.Region = DEFAULT_LOCAL_REGION
		}
		optFns = append(optFns, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return dynamodb.NewFromConfig(cfg, optFns...), nil
}

// ClientOption configures a Client. The zero value scans with the server's
// default page size and never retries unprocessed items.
type ClientOption struct {
	// ScanLimit caps the number of items evaluated per scan page.
	ScanLimit int

	// ConsistentRead requests strongly consistent scans.
	ConsistentRead bool

	// Retry is how many times unprocessed items of a batch are resubmitted.
	Retry int

	// RetryInterval is the pause before each resubmission.
	RetryInterval time.Duration

	Logger *slog.Logger
}

// DefaultClientOption returns the options the CLI uses.
func DefaultClientOption() *ClientOption {
	return &ClientOption{
		Retry:         RETRY_NUMBER,
		RetryInterval: RETRY_INTERVAL,
	}
}

// Client implements Store on top of DynamoDB.
type Client struct {
	api    API
	opt    ClientOption
	logger *slog.Logger
}

func NewClient(api API, opt *ClientOption) *Client {
	if opt == nil {
		opt = DefaultClientOption()
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:    api,
		opt:    *opt,
		logger: logger,
	}
}

func (c *Client) DescribeTable(ctx context.Context, tableName string) (*Table, error) {
	out, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return nil, err
	}

	table := &Table{}
	table.Init(out)

	return table, nil
}

func (c *Client) ScanPages(table string, projection []string) Pager {
	input := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}

	if len(projection) > 0 {
		expr, names := projectionExpression(projection)
		input.ProjectionExpression = aws.String(expr)
		input.ExpressionAttributeNames = names
	}
	if c.opt.ScanLimit > 0 {
		input.Limit = aws.Int32(int32(c.opt.ScanLimit))
	}
	if c.opt.ConsistentRead {
		input.ConsistentRead = aws.Bool(true)
	}

	return &scanPager{
		paginator: dynamodb.NewScanPaginator(c.api, input),
	}
}

// projectionExpression aliases every attribute so reserved words such as
// "name" or "status" can be projected.
func projectionExpression(attributes []string) (string, map[string]string) {
	placeholders := make([]string, 0, len(attributes))
	names := make(map[string]string, len(attributes))

	for i, attr := range attributes {
		ph := "#k" + strconv.Itoa(i)
		placeholders = append(placeholders, ph)
		names[ph] = attr
	}

	return strings.Join(placeholders, ", "), names
}

type scanPager struct {
	paginator *dynamodb.ScanPaginator
}

func (p *scanPager) HasMorePages() bool {
	return p.paginator.HasMorePages()
}

func (p *scanPager) NextPage(ctx context.Context) (*Page, error) {
	out, err := p.paginator.NextPage(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items: make([]Item, 0, len(out.Items)),
	}
	for _, item := range out.Items {
		page.Items = append(page.Items, item)
	}
	if len(out.LastEvaluatedKey) > 0 {
		page.Cursor = out.LastEvaluatedKey
	}

	return page, nil
}

// BatchDelete sends one BatchWriteItem request for keys. Items DynamoDB
// hands back as unprocessed are resubmitted up to Retry times.
func (c *Client) BatchDelete(ctx context.Context, table string, keys []Key) error {
	if len(keys) == 0 {
		return nil
	}

	wreqs := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		wreqs = append(wreqs, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: key,
			},
		})
	}

	for retry := c.opt.Retry; ; retry-- {
		res, err := c.api.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: wreqs,
			},
		})
		if err != nil {
			return err
		}

		wreqs = res.UnprocessedItems[table]
		if len(wreqs) == 0 {
			return nil
		}

		if retry <= 0 {
			break
		}

		c.logger.Debug("retrying unprocessed items",
			"table", table,
			"unprocessed", len(wreqs),
			"retriesLeft", retry,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opt.RetryInterval):
		}
	}

	unprocessed := &UnprocessedError{Table: table}
	for _, wreq := range wreqs {
		if wreq.DeleteRequest != nil {
			unprocessed.Keys = append(unprocessed.Keys, wreq.DeleteRequest.Key)
		}
	}

	return unprocessed
}
