package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/shuntaka9576/ddbclear"
	"github.com/shuntaka9576/ddbclear/cli"
)

var version = "dev"

type Globals struct {
	Local   string           `short:"L" name:"local" env:"DDBCLEAR_LOCAL" help:"Specify DynamoDB local endpoint. ex: (http://)localhost:8000"`
	Region  string           `name:"region" env:"AWS_REGION" help:"AWS region."`
	Profile string           `name:"profile" env:"AWS_PROFILE" help:"AWS shared config profile."`
	Verbose bool             `name:"verbose" help:"Print debug logs to stderr."`
	Version kong.VersionFlag `short:"v" name:"version" help:"print the version."`
}

var CLI struct {
	Globals
	Clear struct {
		TableName     string   `arg:"" name:"tableName" help:"Specify table name to clear."`
		KeyAttributes []string `short:"k" name:"key" help:"Key attribute names (default: the table's key schema)."`
		DryRun        bool     `short:"d" name:"dry-run" help:"Simulate RRUs/WRUs (RCUs/WCUs) to consume."`
		BatchSize     int      `short:"b" name:"batch-size" default:"25" help:"Number of keys in one BatchWriteItem request."`
		Concurrency   int      `short:"c" name:"concurrency" help:"Maximum number of batches in flight (default unlimited)."`
		Limit         int      `short:"l" name:"limit" help:"Limit the write units started per second (WCUs for provisioned tables, WRUs for on-demand tables). Default unlimited."`
		ScanLimit     int      `name:"scan-limit" help:"Number of records read per scan page."`
		Consistent    bool     `name:"consistent" help:"Use strongly consistent scans."`
		NoProgress    bool     `name:"no-progress" help:"Do not draw the progress view."`
	} `cmd:"" help:"Delete every record of a DynamoDB table."`
	Delete struct {
		TableName   string `arg:"" name:"tableName" help:"Specifies table name to delete from."`
		File        string `short:"f" name:"file" required:"" help:"Specify the jsonline file containing the records to be deleted."`
		BatchSize   int    `short:"b" name:"batch-size" default:"25" help:"Number of keys in one BatchWriteItem request."`
		Concurrency int    `short:"c" name:"concurrency" help:"Maximum number of batches in flight (default unlimited)."`
		Limit       int    `short:"l" name:"limit" help:"Limit the write units started per second (WCUs for provisioned tables, WRUs for on-demand tables). Default unlimited."`
		NoProgress  bool   `name:"no-progress" help:"Do not draw the progress view."`
	} `cmd:"" help:"Delete the records listed in a jsonline file."`
	Backup struct {
		TableName string `arg:"" name:"tableName" help:"Specify table name to backup."`
		File      string `short:"f" name:"file" help:"Specify the file path to output (default backup_tableName_yyyymmdd-HHMMSS.jsonl)."`
		ScanLimit int    `name:"scan-limit" help:"Number of records read per scan page."`
	} `cmd:"" help:"Backup DynamoDB table."`
}

func main() {
	kontext := kong.Parse(&CLI,
		kong.Name("ddbclear"),
		kong.Description("Delete every record of a DynamoDB table"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	api, err := ddbclear.NewDynamoDB(ctx, &ddbclear.DDBClientOption{
		Local:   CLI.Local,
		Region:  CLI.Region,
		Profile: CLI.Profile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	clientOpt := ddbclear.DefaultClientOption()
	clientOpt.Logger = logger

	switch kontext.Command() {
	case "clear <tableName>":
		clientOpt.ScanLimit = CLI.Clear.ScanLimit
		clientOpt.ConsistentRead = CLI.Clear.Consistent

		err = cli.Clear(ctx, ddbclear.NewClient(api, clientOpt), &cli.ClearOption{
			TableName:     CLI.Clear.TableName,
			KeyAttributes: CLI.Clear.KeyAttributes,
			DryRun:        CLI.Clear.DryRun,
			BatchSize:     CLI.Clear.BatchSize,
			Concurrency:   CLI.Clear.Concurrency,
			Limit:         CLI.Clear.Limit,
			NoProgress:    CLI.Clear.NoProgress || CLI.Verbose,
			Logger:        logger,
		})
	case "delete <tableName>":
		err = cli.Delete(ctx, ddbclear.NewClient(api, clientOpt), &cli.DeleteOption{
			TableName:   CLI.Delete.TableName,
			FilePath:    CLI.Delete.File,
			BatchSize:   CLI.Delete.BatchSize,
			Concurrency: CLI.Delete.Concurrency,
			Limit:       CLI.Delete.Limit,
			NoProgress:  CLI.Delete.NoProgress || CLI.Verbose,
			Logger:      logger,
		})
	case "backup <tableName>":
		clientOpt.ScanLimit = CLI.Backup.ScanLimit

		err = cli.Backup(ctx, ddbclear.NewClient(api, clientOpt), &cli.BackupOption{
			TableName: CLI.Backup.TableName,
			FilePath:  CLI.Backup.File,
		})
	}

	if err != nil {
		switch {
		case errors.Is(err, cli.ErrorDescribeTable):
			fmt.Fprintf(os.Stderr, "describe table error: %s\n", err)
		case errors.Is(err, cli.ErrorOptInputError):
			fmt.Fprintf(os.Stderr, "invalid options: %s\n", err)
		default:
			fmt.Fprintf(os.Stderr, "%s\n", err)
		}

		os.Exit(1)
	}
}
