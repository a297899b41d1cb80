// Package server runs the long-lived parts of macrosd (relay listener or
// client, console reader) and stops them in reverse order on shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks until Stop is called
// or the service fails.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle starts services in registration order and stops them in reverse.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name     string
	service  Service
	terminal bool
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.add(namedService{name: name, service: svc})
}

// AddTerminal registers a service whose clean return ends the run, such as
// the console reaching the end of its input.
func (l *Lifecycle) AddTerminal(name string, svc Service) {
	l.add(namedService{name: name, service: svc, terminal: true})
}

func (l *Lifecycle) add(ns namedService) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, ns)
}

// Run starts all services and blocks until SIGINT or SIGTERM, ctx is
// cancelled, a service fails or a terminal service returns.
//
// Postcondition: all services are stopped; the first service failure, if
// any, is returned.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	errCh := make(chan error, len(services))
	doneCh := make(chan string, len(services))
	for _, ns := range services {
		go func() {
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			err := ns.service.Start()
			switch {
			case err != nil:
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			case ns.terminal:
				doneCh <- ns.name
			}
		}()
	}
	l.logger.Info("all services started", zap.Int("count", len(services)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(runErr))
	case name := <-doneCh:
		l.logger.Info("service finished, shutting down", zap.String("service", name))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		ns.service.Stop()
		l.logger.Info("service stopped", zap.String("service", ns.name))
	}
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}
