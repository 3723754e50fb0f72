package ddbclear_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/shuntaka9576/ddbclear"
)

func TestBackup(t *testing.T) {
	fake := newUsersTable(t, 12)
	fake.PageSize = 5

	var buf bytes.Buffer
	var progress []int
	count, err := ddbclear.Backup(context.Background(), ddbclear.NewClient(fake, nil), &ddbclear.BackupOption{
		TableName: usersTable,
		Writer:    &buf,
		OnPage:    func(count int) { progress = append(progress, count) },
	})
	if err != nil {
		t.Fatal(err)
	}

	if count != 12 {
		t.Errorf("expected 12 records, got %d", count)
	}
	if !reflect.DeepEqual(progress, []int{5, 10, 12}) {
		t.Errorf("unexpected progress %v", progress)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	if lines[0] != `{"data":"payload","email":"user-00@test.com"}` {
		t.Errorf("unexpected first line %s", lines[0])
	}

	// The backup feeds straight back into ReadItems.
	items, err := ddbclear.ReadItems(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 12 {
		t.Errorf("expected 12 items read back, got %d", len(items))
	}
	if fake.Count(usersTable) != 12 {
		t.Error("backup must not modify the table")
	}
}

func TestBackup_ScanError(t *testing.T) {
	fake := newUsersTable(t, 12)
	fake.PageSize = 5
	fake.ScanHook = func(call int, input *dynamodb.ScanInput) error {
		if call == 2 {
			return errors.New("expired token")
		}
		return nil
	}

	var buf bytes.Buffer
	count, err := ddbclear.Backup(context.Background(), ddbclear.NewClient(fake, nil), &ddbclear.BackupOption{
		TableName: usersTable,
		Writer:    &buf,
	})

	var scanErr *ddbclear.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 records written before the failure, got %d", count)
	}
}
