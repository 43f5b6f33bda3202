// Package smtp dials the configured mail server and hands out clients
// ready to send.
package smtp

import (
	"context"
	"io"
)

// Client is the part of *smtp.Client used to deliver one message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens authenticated connections to the mail server.
type TransportInterface interface {
	Connect(ctx context.Context) (Client, error)
	GetSMTPUser() string
}
