package ddbclear

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestGetItemSize(t *testing.T) {
	var tests = []struct {
		name  string
		input Item
		want  ItemResult
	}{
		{
			"string",
			Item{"field": &types.AttributeValueMemberS{Value: "value"}},
			ItemResult{Size: 10, ReadUnit: 1, WriteUnit: 1},
		},
		{
			"string and number",
			Item{
				"field": &types.AttributeValueMemberS{Value: "value"},
				"count": &types.AttributeValueMemberN{Value: "3"},
			},
			ItemResult{Size: 16, ReadUnit: 1, WriteUnit: 1},
		},
		{
			"list",
			Item{
				"field": &types.AttributeValueMemberS{Value: "value"},
				"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{
					&types.AttributeValueMemberN{Value: "3"},
					&types.AttributeValueMemberS{Value: "2"},
					&types.AttributeValueMemberS{Value: "foo"},
				}},
			},
			ItemResult{Size: 19, ReadUnit: 1, WriteUnit: 1},
		},
		{
			"nested map with bool and null",
			Item{
				"field": &types.AttributeValueMemberS{Value: "value"},
				"list": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
					"foo":    &types.AttributeValueMemberS{Value: "hoge"},
					"count":  &types.AttributeValueMemberN{Value: "3"},
					"flag":   &types.AttributeValueMemberBOOL{Value: false},
					"field2": &types.AttributeValueMemberNULL{Value: true},
				}},
			},
			ItemResult{Size: 39, ReadUnit: 1, WriteUnit: 1},
		},
		{
			"sets and binary",
			Item{
				"ss": &types.AttributeValueMemberSS{Value: []string{"a", "bb"}},
				"ns": &types.AttributeValueMemberNS{Value: []string{"10", "200"}},
				"bs": &types.AttributeValueMemberBS{Value: [][]byte{{1, 2}, {3}}},
				"b":  &types.AttributeValueMemberB{Value: []byte{1, 2, 3, 4}},
			},
			ItemResult{Size: 22, ReadUnit: 1, WriteUnit: 1},
		},
		{
			"over one write unit",
			Item{"blob": &types.AttributeValueMemberS{Value: strings.Repeat("x", 4996)}},
			ItemResult{Size: 5000, ReadUnit: 2, WriteUnit: 5},
		},
		{
			"empty",
			Item{},
			ItemResult{Size: 0, ReadUnit: 0, WriteUnit: 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := GetItemSize(test.input)
			if err != nil {
				t.Fatalf("get item size err: %s", err)
			}

			if !reflect.DeepEqual(*got, test.want) {
				t.Errorf("want %+v got %+v", test.want, *got)
			}
		})
	}
}

func TestGetItemSize_UnknownMember(t *testing.T) {
	_, err := GetItemSize(Item{"bad": &types.UnknownUnionMember{Tag: "X"}})
	if err == nil {
		t.Fatal("expected error for unknown member")
	}

	want := `attribute "bad": unexpected type error: *types.UnknownUnionMember`
	if err.Error() != want {
		t.Errorf("got %s, want %s", err, want)
	}
}
