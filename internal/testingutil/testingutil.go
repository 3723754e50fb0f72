package testingutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shuntaka9576/ddbclear"
)

const (
	// LOCAL_ENDPOINT_ENV names an already running DynamoDB Local endpoint.
	// When it is unset the integration tests start their own container.
	LOCAL_ENDPOINT_ENV = "DDBCLEAR_LOCAL"

	TABLE_WAIT_TIMEOUT = 30 * time.Second

	LOCAL_REGION = "ap-southeast-2"
)

func LocalEndpoint() string {
	return os.Getenv(LOCAL_ENDPOINT_ENV)
}

// InitLocalClient returns a client for DynamoDB Local with dummy
// credentials.
func InitLocalClient(ctx context.Context, endpoint string) (*dynamodb.Client, error) {
	return ddbclear.NewDynamoDB(ctx, &ddbclear.DDBClientOption{
		Local:       endpoint,
		Region:      LOCAL_REGION,
		Credentials: credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
	})
}

type TableOption struct {
	Prefix string
	Keys   []string
	Mode   types.BillingMode
}

// CreateTable creates a uniquely named table with string keys and waits
// until it is active.
func CreateTable(ctx context.Context, client *dynamodb.Client, opt *TableOption) (tableName string, err error) {
	if len(opt.Keys) == 0 {
		return "", errors.New("create table: no keys")
	}

	tableName = fmt.Sprintf("%s-%s", opt.Prefix, uuid.NewString())
	input := &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: opt.Mode,
	}
	for i, key := range opt.Keys {
		keyType := types.KeyTypeHash
		if i > 0 {
			keyType = types.KeyTypeRange
		}
		input.KeySchema = append(input.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(key),
			KeyType:       keyType,
		})
		input.AttributeDefinitions = append(input.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(key),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	if opt.Mode == types.BillingModeProvisioned {
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		}
	}

	if _, err = client.CreateTable(ctx, input); err != nil {
		return "", err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, TABLE_WAIT_TIMEOUT)
	if err != nil {
		return "", err
	}

	return tableName, nil
}

func DeleteTable(ctx context.Context, client *dynamodb.Client, tableName string) error {
	_, err := client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return err
	}

	waiter := dynamodb.NewTableNotExistsWaiter(client)

	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, TABLE_WAIT_TIMEOUT)
}

// SeedItems puts n items whose key attributes hold random UUIDs.
func SeedItems(ctx context.Context, client *dynamodb.Client, tableName string, keys []string, n int) error {
	for i := 0; i < n; i++ {
		item := map[string]types.AttributeValue{
			"number": &types.AttributeValueMemberN{Value: fmt.Sprint(i)},
		}
		for _, key := range keys {
			item[key] = &types.AttributeValueMemberS{Value: uuid.NewString()}
		}

		_, err := client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(tableName),
			Item:      item,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func CountItems(ctx context.Context, client *dynamodb.Client, tableName string) (int, error) {
	paginator := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{
		TableName: aws.String(tableName),
		Select:    types.SelectCount,
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		count += int(page.Count)
	}

	return count, nil
}
