package ddbclear_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/shuntaka9576/ddbclear"
	"github.com/shuntaka9576/ddbclear/internal/testingutil"
)

func userKeys(n int) []ddbclear.Key {
	keys := make([]ddbclear.Key, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, ddbclear.Key{
			"email": &types.AttributeValueMemberS{Value: fmt.Sprintf("user-%02d@test.com", i)},
		})
	}

	return keys
}

func TestClient_BatchDeleteRetriesUnprocessed(t *testing.T) {
	fake := newUsersTable(t, 25)
	fake.Unprocessed = func(call int) int {
		switch call {
		case 1:
			return 3
		case 2:
			return 1
		default:
			return 0
		}
	}
	client := ddbclear.NewClient(fake, &ddbclear.ClientOption{Retry: 3, RetryInterval: time.Millisecond, Logger: discardLogger()})

	if err := client.BatchDelete(context.Background(), usersTable, userKeys(25)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := fake.BatchWriteCalls(); calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if n := fake.Count(usersTable); n != 0 {
		t.Errorf("expected empty table, %d items left", n)
	}
}

func TestClient_BatchDeleteGivesUp(t *testing.T) {
	fake := newUsersTable(t, 10)
	fake.Unprocessed = func(call int) int { return 2 }
	client := ddbclear.NewClient(fake, &ddbclear.ClientOption{Retry: 1, RetryInterval: time.Millisecond, Logger: discardLogger()})

	err := client.BatchDelete(context.Background(), usersTable, userKeys(10))

	var unprocessed *ddbclear.UnprocessedError
	if !errors.As(err, &unprocessed) {
		t.Fatalf("expected *UnprocessedError, got %v", err)
	}
	if len(unprocessed.Keys) != 2 {
		t.Errorf("expected 2 unprocessed keys, got %d", len(unprocessed.Keys))
	}
	if calls := fake.BatchWriteCalls(); calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestClient_BatchDeleteNoRetry(t *testing.T) {
	fake := newUsersTable(t, 5)
	fake.Unprocessed = func(call int) int { return 1 }
	client := ddbclear.NewClient(fake, &ddbclear.ClientOption{Logger: discardLogger()})

	err := client.BatchDelete(context.Background(), usersTable, userKeys(5))

	var unprocessed *ddbclear.UnprocessedError
	if !errors.As(err, &unprocessed) {
		t.Fatalf("expected *UnprocessedError, got %v", err)
	}
	if calls := fake.BatchWriteCalls(); calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestClient_BatchDeleteEmpty(t *testing.T) {
	fake := newUsersTable(t, 5)
	client := ddbclear.NewClient(fake, nil)

	if err := client.BatchDelete(context.Background(), usersTable, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := fake.BatchWriteCalls(); calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}

func TestClient_ScanPages(t *testing.T) {
	tests := []struct {
		name      string
		records   int
		scanLimit int
		wantPages []int
	}{
		{"empty", 0, 7, []int{0}},
		{"partial last page", 20, 7, []int{7, 7, 6}},
		{"exact multiple", 21, 7, []int{7, 7, 7, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newUsersTable(t, tt.records)
			client := ddbclear.NewClient(fake, &ddbclear.ClientOption{ScanLimit: tt.scanLimit, Logger: discardLogger()})

			pager := client.ScanPages(usersTable, []string{"email"})

			var pages []int
			for pager.HasMorePages() {
				page, err := pager.NextPage(context.Background())
				if err != nil {
					t.Fatal(err)
				}
				pages = append(pages, len(page.Items))
				for _, item := range page.Items {
					if _, ok := item["data"]; ok {
						t.Error("projection returned a non-key attribute")
					}
				}
				if !pager.HasMorePages() && page.Cursor != nil {
					t.Error("last page carries a cursor")
				}
			}

			if fmt.Sprint(pages) != fmt.Sprint(tt.wantPages) {
				t.Errorf("want pages %v, got %v", tt.wantPages, pages)
			}
		})
	}
}

func TestClient_ScanPagesReservedWord(t *testing.T) {
	fake := testingutil.NewFakeDynamoDB()
	fake.CreateTable("Accounts", []string{"name"}, types.BillingModePayPerRequest)
	if err := fake.PutStrings("Accounts", "name", "account-%d", 3); err != nil {
		t.Fatal(err)
	}
	client := ddbclear.NewClient(fake, nil)

	page, err := client.ScanPages("Accounts", []string{"name"}).NextPage(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	for _, item := range page.Items {
		if _, ok := item["name"]; !ok || len(item) != 1 {
			t.Errorf("expected only name, got %v", item)
		}
	}
}

func TestClient_DescribeTable(t *testing.T) {
	fake := testingutil.NewFakeDynamoDB()
	fake.CreateTable("Orders", []string{"pk", "sk"}, types.BillingModePayPerRequest)
	client := ddbclear.NewClient(fake, nil)

	table, err := client.DescribeTable(context.Background(), "Orders")
	if err != nil {
		t.Fatal(err)
	}

	if table.Name != "Orders" {
		t.Errorf("expected name Orders, got %q", table.Name)
	}
	if fmt.Sprint(table.Keys) != "[pk sk]" {
		t.Errorf("expected keys [pk sk], got %v", table.Keys)
	}
	if table.Mode != ddbclear.OnDemand {
		t.Errorf("expected OnDemand, got %s", table.Mode)
	}
}

func TestClient_DescribeTableNotFound(t *testing.T) {
	client := ddbclear.NewClient(testingutil.NewFakeDynamoDB(), nil)

	_, err := client.DescribeTable(context.Background(), "Missing")

	var rnfe *types.ResourceNotFoundException
	if !errors.As(err, &rnfe) {
		t.Errorf("expected ResourceNotFoundException, got %v", err)
	}
}
