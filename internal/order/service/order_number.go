package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type SequenceRepository interface {
	Next(ctx context.Context) (int64, error)
}

// OrderNumberGenerator formats order numbers as PREFIX-%08d from a database
// sequence, falling back to PREFIX-<unix millis> when the sequence fails.
type OrderNumberGenerator struct {
	seq    SequenceRepository
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderNumberGenerator(seq SequenceRepository, prefix string, logger *zap.Logger) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		seq:    seq,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Next never fails. Fallback numbers are not checked for uniqueness; a
// collision surfaces later as a unique-key violation on insert.
func (g *OrderNumberGenerator) Next(ctx context.Context) string {
	n, err := g.seq.Next(ctx)
	if err != nil {
		fallback := fmt.Sprintf("%s-%d", g.prefix, g.now().UnixMilli())
		g.logger.Warn("order number sequence failed, using fallback", zap.String("orderNumber", fallback), zap.Error(err))
		return fallback
	}
	return fmt.Sprintf("%s-%08d", g.prefix, n)
}
