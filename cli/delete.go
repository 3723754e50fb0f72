package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/shuntaka9576/ddbclear"
)

type DeleteOption struct {
	TableName   string
	FilePath    string
	BatchSize   int
	Concurrency int
	Limit       int
	NoProgress  bool
	Logger      *slog.Logger
	Out         io.Writer

	progressOptions []tea.ProgramOption
}

func (c *DeleteOption) validate() error {
	if c.TableName == "" || c.FilePath == "" || c.Limit < 0 {
		return ErrorOptInputError
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}

	return nil
}

// Delete removes the records listed in a JSON Lines file. Only the key
// attributes of each line are used.
func Delete(ctx context.Context, client *ddbclear.Client, opt *DeleteOption) error {
	err := opt.validate()
	if err != nil {
		return err
	}

	f, err := os.Open(opt.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := ddbclear.ReadItems(f)
	if err != nil {
		return errors.Wrapf(err, "read %s", opt.FilePath)
	}

	table, err := client.DescribeTable(ctx, opt.TableName)
	if err != nil {
		return &DescribeTableError{TableName: opt.TableName, Err: err}
	}

	keys := make([]ddbclear.Key, 0, len(items))
	for _, item := range items {
		keys = append(keys, table.KeyOf(item))
	}

	if len(keys) == 0 {
		fmt.Fprintf(opt.Out, "%s has no records\n", opt.FilePath)
		return nil
	}

	return deleteKeys(ctx, client, eraserConfig(opt.BatchSize, opt.Concurrency, opt.Limit), &deleteRun{
		table:           table.Name,
		keys:            keys,
		noProgress:      opt.NoProgress,
		progressOptions: opt.progressOptions,
		logger:          opt.Logger,
		out:             opt.Out,
	})
}
