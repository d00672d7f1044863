// Package sqsgath sends batch events as JSON messages to an SQS queue.
package sqsgath

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/answers/internal/gatherer"
)

// MessageSender is the part of the SQS client used by the gatherer.
type MessageSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// New returns a gatherer sending every event to queueUrl.
func New(ctx context.Context, client MessageSender, queueUrl string, logger *slog.Logger) *gatherer.Stream {
	return gatherer.NewStream(&sender{ctx: ctx, client: client, queueUrl: queueUrl}, logger)
}

// NewFromConfig builds the SQS client from the default AWS configuration.
func NewFromConfig(ctx context.Context, region, queueUrl string, logger *slog.Logger) (*gatherer.Stream, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return New(ctx, sqs.NewFromConfig(cfg), queueUrl, logger), nil
}
