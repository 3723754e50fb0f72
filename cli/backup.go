package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shuntaka9576/ddbclear"
)

type BackupOption struct {
	TableName string
	FilePath  string
	Out       io.Writer

	// Progress receives the running record count. Default: os.Stderr
	Progress io.Writer
}

func (c *BackupOption) validate() error {
	if c.TableName == "" {
		return ErrorOptInputError
	}
	if c.FilePath == "" {
		c.FilePath = defaultBackupFileName(c.TableName, time.Now())
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Progress == nil {
		c.Progress = os.Stderr
	}

	return nil
}

func defaultBackupFileName(tableName string, now time.Time) string {
	return fmt.Sprintf("backup_%s_%s.jsonl", tableName, now.Format("20060102-150405"))
}

func Backup(ctx context.Context, client *ddbclear.Client, opt *BackupOption) error {
	err := opt.validate()
	if err != nil {
		return err
	}

	f, err := os.Create(opt.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	count, err := ddbclear.Backup(ctx, client, &ddbclear.BackupOption{
		TableName: opt.TableName,
		Writer:    f,
		OnPage: func(count int) {
			fmt.Fprintf(opt.Progress, "\rscanned records: %d", count)
		},
	})
	fmt.Fprintln(opt.Progress)
	if err != nil {
		return err
	}

	fmt.Fprintf(opt.Out, "created %s (%d records)\n", displayPath(f.Name()), count)

	return nil
}
