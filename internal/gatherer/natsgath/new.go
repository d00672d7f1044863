// Package natsgath streams batch events as JSON messages to a NATS subject.
package natsgath

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/answers/internal/gatherer"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// New returns a gatherer publishing every event to subject.
func New(nc Publisher, subject string, logger *slog.Logger) *gatherer.Stream {
	return gatherer.NewStream(&sender{nc: nc, subject: subject}, logger)
}

// Connect dials url and returns a gatherer bound to the connection. The
// returned close function flushes pending messages.
func Connect(url, subject string, logger *slog.Logger) (*gatherer.Stream, func(), error) {
	nc, err := nats.Connect(url, nats.Name("answers"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return New(nc, subject, logger), closeFn, nil
}
