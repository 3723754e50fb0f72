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
	"github.com/shuntaka9576/ddbclear/ui"
)

type ClearOption struct {
	TableName     string
	KeyAttributes []string
	DryRun        bool
	BatchSize     int
	Concurrency   int
	Limit         int
	NoProgress    bool
	Logger        *slog.Logger
	Out           io.Writer

	progressOptions []tea.ProgramOption
}

func (c *ClearOption) validate() error {
	if c.TableName == "" || c.Limit < 0 {
		return ErrorOptInputError
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}

	return nil
}

func Clear(ctx context.Context, client *ddbclear.Client, opt *ClearOption) error {
	err := opt.validate()
	if err != nil {
		return err
	}

	table, err := client.DescribeTable(ctx, opt.TableName)
	if err != nil {
		return &DescribeTableError{TableName: opt.TableName, Err: err}
	}

	if opt.DryRun {
		return printSimulation(ctx, client, table, opt.BatchSize, opt.Out)
	}

	keyAttributes := opt.KeyAttributes
	if len(keyAttributes) == 0 {
		keyAttributes = table.Keys
	}

	config := eraserConfig(opt.BatchSize, opt.Concurrency, opt.Limit)

	keys, err := ddbclear.NewEraser(client, config, opt.Logger).Collect(ctx, table.Name, keyAttributes)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		fmt.Fprintf(opt.Out, "%s is already empty\n", table.Name)
		return nil
	}

	return deleteKeys(ctx, client, config, &deleteRun{
		table:           table.Name,
		keys:            keys,
		noProgress:      opt.NoProgress,
		progressOptions: opt.progressOptions,
		logger:          opt.Logger,
		out:             opt.Out,
	})
}

func eraserConfig(batchSize, concurrency, limit int) ddbclear.Config {
	config := ddbclear.DefaultConfig()
	if batchSize > 0 {
		config.BatchSize = batchSize
	}
	config.Concurrency = concurrency
	config.LimitUnit = limit

	return config
}

func printSimulation(ctx context.Context, client *ddbclear.Client, table *ddbclear.Table, batchSize int, out io.Writer) error {
	result, err := ddbclear.Simulate(ctx, client, &ddbclear.SimulateOpt{
		Table:     table,
		BatchSize: batchSize,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Records: %d\n", result.Records)
	fmt.Fprintf(out, "Batches: %d\n", result.Batches)
	fmt.Fprintf(out, "Total item size: %s\n", ddbclear.PrettyPrintBytes(result.TotalItemSize))

	switch table.Mode {
	case ddbclear.Provisioned:
		fmt.Fprintf(out, "Total to consume: %d RCU, %d WCU\n", *result.ConsumeRCU, *result.ConsumeWCU)
	case ddbclear.OnDemand:
		fmt.Fprintf(out, "Total to consume: %d RRU, %d WRU\n", *result.ConsumeRRU, *result.ConsumeWRU)
	}

	return nil
}

type deleteRun struct {
	table           string
	keys            []ddbclear.Key
	noProgress      bool
	progressOptions []tea.ProgramOption
	logger          *slog.Logger
	out             io.Writer
}

// deleteKeys runs Eraser.Delete, drawing the progress view on stderr unless
// it is disabled. Quitting the view cancels the delete.
func deleteKeys(ctx context.Context, client *ddbclear.Client, config ddbclear.Config, run *deleteRun) error {
	if run.noProgress {
		err := ddbclear.NewEraser(client, config, run.logger).Delete(ctx, run.table, run.keys)
		if err != nil {
			return err
		}

		fmt.Fprintf(run.out, "deleted %d records from %s\n", len(run.keys), run.table)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	options := run.progressOptions
	if options == nil {
		options = []tea.ProgramOption{tea.WithOutput(os.Stderr)}
	}
	p := tea.NewProgram(ui.InitModel(&ui.Option{
		TableName: run.table,
		Total:     len(run.keys),
	}), options...)

	uiDone := make(chan struct{})
	uiErrCh := make(chan error, 1)
	go func() {
		uiErrCh <- p.Start()
		close(uiDone)
		cancel()
	}()

	progress := newProgressSender(p, uiDone)
	config.OnBatch = func(result ddbclear.BatchResult) {
		progress.send(ui.BatchMsg{Size: result.Size, Err: result.Err})
	}

	err := ddbclear.NewEraser(client, config, run.logger).Delete(ctx, run.table, run.keys)
	progress.send(ui.DoneMsg{Err: err})

	if uiErr := <-uiErrCh; uiErr != nil && err == nil {
		return errors.Wrap(uiErr, "progress view")
	}

	return err
}

// progressSender relays messages to a running program. Program.Send blocks
// for good once the program has exited, so only the relay goroutine calls it
// and senders give up when the program is done.
type progressSender struct {
	msgs chan tea.Msg
	done <-chan struct{}
}

func newProgressSender(p *tea.Program, done <-chan struct{}) *progressSender {
	s := &progressSender{
		msgs: make(chan tea.Msg),
		done: done,
	}

	go func() {
		for {
			select {
			case msg := <-s.msgs:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()

	return s
}

func (s *progressSender) send(msg tea.Msg) {
	select {
	case s.msgs <- msg:
	case <-s.done:
	}
}
