package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/shuntaka9576/ddbclear"
	"github.com/shuntaka9576/ddbclear/handler"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	api, err := ddbclear.NewDynamoDB(context.Background(), &ddbclear.DDBClientOption{
		Local: os.Getenv("DDBCLEAR_LOCAL"),
	})
	if err != nil {
		logger.Error("unable to create DynamoDB client", "error", err)
		os.Exit(1)
	}

	clientOpt := ddbclear.DefaultClientOption()
	clientOpt.Logger = logger

	config := ddbclear.DefaultConfig()
	if v := os.Getenv("DDBCLEAR_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid DDBCLEAR_CONCURRENCY", "value", v, "error", err)
			os.Exit(1)
		}
		config.Concurrency = n
	}

	h := handler.New(ddbclear.NewClient(api, clientOpt), config, logger)

	lambda.Start(h.Handle)
}
