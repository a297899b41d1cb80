package money

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// loggingService decorates a Service with structured logging.
type loggingService struct {
	logger *zap.Logger
	next   Service
}

// NewLoggingService returns a Service that logs every call to next.
func NewLoggingService(logger *zap.Logger, next Service) Service {
	return &loggingService{logger: logger, next: next}
}

func (s *loggingService) Regions() *RegionSet {
	return s.next.Regions()
}

func (s *loggingService) Pay(ctx context.Context, actorID string, req PaymentRequest) (res *PaymentResult, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("method", "pay"),
			zap.String("actor", actorID),
			zap.String("amount", req.Amount.String()),
			zap.String("region", req.RegionKey),
			zap.Bool("strict", req.Strict),
			zap.Duration("took", time.Since(begin)),
		}
		if err != nil {
			s.logger.Warn("payment failed", append(fields, zap.Error(err))...)
			return
		}
		s.logger.Info("payment settled", append(fields,
			zap.String("paid_with", string(res.Method)),
			zap.Int("change", res.Change),
			zap.Int("unreturned_change", res.UnreturnedChange),
		)...)
	}(time.Now())
	return s.next.Pay(ctx, actorID, req)
}

func (s *loggingService) Credit(ctx context.Context, actorID string, a Amount) (updates []Holding, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("method", "credit"),
			zap.String("actor", actorID),
			zap.String("amount", a.String()),
			zap.Duration("took", time.Since(begin)),
		}
		if err != nil {
			s.logger.Warn("credit failed", append(fields, zap.Error(err))...)
			return
		}
		s.logger.Info("credit applied", append(fields, zap.Int("stacks", len(updates)))...)
	}(time.Now())
	return s.next.Credit(ctx, actorID, a)
}

func (s *loggingService) Exchange(ctx context.Context, a Amount, source, target string) (c Conversion, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("exchange",
			zap.String("method", "exchange"),
			zap.String("amount", a.String()),
			zap.String("from", source),
			zap.String("to", target),
			zap.Float64("rate", c.Rate),
			zap.Int("converted", c.Converted),
			zap.Duration("took", time.Since(begin)),
			zap.Error(err),
		)
	}(time.Now())
	return s.next.Exchange(ctx, a, source, target)
}
