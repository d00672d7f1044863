package sqsgath

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sender struct {
	// ctx is the batch context; sends stop once it is cancelled.
	ctx      context.Context
	client   MessageSender
	queueUrl string
}

func (s *sender) Send(body []byte) error {
	_, err := s.client.SendMessage(s.ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(body)),
	})
	return err
}
