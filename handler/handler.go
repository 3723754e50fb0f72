// Package handler clears a DynamoDB table from an AWS Lambda invocation.
package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/pkg/errors"
	"github.com/shuntaka9576/ddbclear"
)

type Event struct {
	TableName string `json:"tableName"`

	// KeyAttributes defaults to the table's key schema.
	KeyAttributes []string `json:"keyAttributes,omitempty"`
}

type Response struct {
	TableName string `json:"tableName"`
	Deleted   int    `json:"deleted"`
}

type Handler struct {
	client *ddbclear.Client
	config ddbclear.Config
	logger *slog.Logger
}

func New(client *ddbclear.Client, config ddbclear.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		client: client,
		config: config,
		logger: logger,
	}
}

func (h *Handler) Handle(ctx context.Context, event Event) (Response, error) {
	logger := h.logger.With("table", event.TableName)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	if event.TableName == "" {
		return Response{}, ddbclear.ErrEmptyTableName
	}

	keyAttributes := event.KeyAttributes
	if len(keyAttributes) == 0 {
		table, err := h.client.DescribeTable(ctx, event.TableName)
		if err != nil {
			logger.Error("describe table failed", "error", err)
			return Response{}, errors.Wrap(err, "describe table")
		}
		keyAttributes = table.Keys
	}

	logger.Info("clearing table", "keys", keyAttributes)

	eraser := ddbclear.NewEraser(h.client, h.config, logger)

	keys, err := eraser.Collect(ctx, event.TableName, keyAttributes)
	if err != nil {
		logger.Error("scan failed", "error", err)
		return Response{}, err
	}

	if err := eraser.Delete(ctx, event.TableName, keys); err != nil {
		logger.Error("clear failed", "error", err)
		return Response{}, err
	}

	logger.Info("table cleared", "deleted", len(keys))

	return Response{TableName: event.TableName, Deleted: len(keys)}, nil
}
