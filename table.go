package ddbclear

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DDBMode = string

var (
	OnDemand    = DDBMode("OnDemand")
	Provisioned = DDBMode("Provisioned")
)

// Item is a stored record.
type Item map[string]types.AttributeValue

// Key holds only the key attributes of an Item. It is what a delete
// request carries.
type Key map[string]types.AttributeValue

type Table struct {
	Name string
	Keys []string
	Mode DDBMode
}

func (t *Table) Init(output *dynamodb.DescribeTableOutput) {
	t.Name = *output.Table.TableName

	t.Keys = nil
	for _, keyav := range output.Table.KeySchema {
		t.Keys = append(t.Keys, *keyav.AttributeName)
	}

	t.Mode = func() DDBMode {
		summary := output.Table.BillingModeSummary
		if summary != nil && summary.BillingMode == types.BillingModePayPerRequest {
			return OnDemand
		}
		return Provisioned
	}()
}

// KeyOf projects item onto the table's key attributes.
func (t *Table) KeyOf(item Item) Key {
	return projectKey(item, t.Keys)
}

// projectKey copies the named attributes present in item. Missing names are
// left out so DynamoDB reports the schema mismatch on delete.
func projectKey(item Item, keyAttributes []string) Key {
	key := make(Key, len(keyAttributes))
	for _, name := range keyAttributes {
		if av, ok := item[name]; ok {
			key[name] = av
		}
	}

	return key
}
