package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handler answers one chat line.
type Handler interface {
	Handle(ctx context.Context, userID, line string) string
}

// Console feeds lines from in to a Handler and writes the replies to out.
// A line of the form "@<user> <text>" is spoken by <user> instead of the
// default user. Start returns at the end of input.
type Console struct {
	handler Handler
	in      io.Reader
	out     io.Writer
	user    string
	logger  *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewConsole creates a Console speaking as user by default.
func NewConsole(handler Handler, in io.Reader, out io.Writer, user string, logger *zap.Logger) *Console {
	return &Console{
		handler: handler,
		in:      in,
		out:     out,
		user:    user,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// Start reads until end of input or Stop.
func (c *Console) Start() error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-c.stop:
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for {
		select {
		case <-c.stop:
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("reading console input: %w", err)
				}
				return nil
			}
			c.handle(ctx, line)
		}
	}
}

// Stop ends Start without waiting for more input.
func (c *Console) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Console) handle(ctx context.Context, line string) {
	user := c.user
	if rest, ok := strings.CutPrefix(line, "@"); ok {
		name, text, _ := strings.Cut(rest, " ")
		user, line = name, text
	}
	if strings.TrimSpace(line) == "" {
		return
	}
	reply := c.handler.Handle(ctx, user, line)
	if reply == "" {
		return
	}
	if _, err := fmt.Fprintln(c.out, reply); err != nil {
		c.logger.Warn("writing console reply", zap.Error(err))
	}
}
