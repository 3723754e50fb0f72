package ddbclear

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func keysN(n int) []Key {
	keys := make([]Key, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, Key{"id": &types.AttributeValueMemberS{Value: fmt.Sprint(i)}})
	}

	return keys
}

func TestPartition(t *testing.T) {
	var tests = []struct {
		n    int
		size int
		want []int
	}{
		{0, 25, nil},
		{1, 25, []int{1}},
		{25, 25, []int{25}},
		{26, 25, []int{25, 1}},
		{30, 25, []int{25, 5}},
		{75, 25, []int{25, 25, 25}},
		{7, 3, []int{3, 3, 1}},
		{5, 0, []int{5}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%d by %d", test.n, test.size), func(t *testing.T) {
			keys := keysN(test.n)
			got := partition(keys, test.size)

			if len(got) != len(test.want) {
				t.Fatalf("want %d batches, got %d", len(test.want), len(got))
			}

			next := 0
			for i, batch := range got {
				if len(batch) != test.want[i] {
					t.Errorf("batch %d: want size %d, got %d", i, test.want[i], len(batch))
				}
				if len(batch) == 0 {
					t.Errorf("batch %d is empty", i)
				}
				for _, key := range batch {
					want := fmt.Sprint(next)
					if got := key["id"].(*types.AttributeValueMemberS).Value; got != want {
						t.Errorf("batch %d: want key %s, got %s", i, want, got)
					}
					next++
				}
			}
			if next != test.n {
				t.Errorf("want %d keys across batches, got %d", test.n, next)
			}
		})
	}
}

func TestPartition_BatchesDoNotAlias(t *testing.T) {
	keys := keysN(30)
	batches := partition(keys, 25)

	batches[0] = append(batches[0], Key{"id": &types.AttributeValueMemberS{Value: "extra"}})

	if got := batches[1][0]["id"].(*types.AttributeValueMemberS).Value; got != "25" {
		t.Errorf("appending to a batch overwrote the next one: %s", got)
	}
}

func TestBatchCount(t *testing.T) {
	var tests = []struct {
		n, size, want int
	}{
		{0, 25, 0},
		{-1, 25, 0},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{50, 25, 2},
	}

	for _, test := range tests {
		if got := batchCount(test.n, test.size); got != test.want {
			t.Errorf("batchCount(%d, %d): want %d, got %d", test.n, test.size, test.want, got)
		}
	}
}
