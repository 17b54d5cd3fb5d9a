// internal/core/services/serial.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wshuai/catalog-be/internal/core/ports"
)

// DefaultSerialPrefix is the leading code of generated product serials
const DefaultSerialPrefix = "SP"

// SerialGenerator produces product serial numbers of the form
// PREFIX + YYYYMMDD + 4-digit sequence, e.g. SP202412190001. The sequence
// comes from an atomic per-day counter in the repository, so interleaved
// creates never observe the same value. The original read-max-then-write
// scheme survives only as the counter seed for legacy rows.
type SerialGenerator struct {
	repo   ports.ProductRepository
	prefix string
	logger *slog.Logger
}

// Statically assert that *SerialGenerator implements the SerialGenerator port.
var _ ports.SerialGenerator = (*SerialGenerator)(nil)

// NewSerialGenerator creates a serial generator. An empty prefix falls back
// to DefaultSerialPrefix.
func NewSerialGenerator(repo ports.ProductRepository, prefix string, logger *slog.Logger) *SerialGenerator {
	if prefix == "" {
		prefix = DefaultSerialPrefix
	}
	return &SerialGenerator{
		repo:   repo,
		prefix: prefix,
		logger: logger.With(slog.String("service", "serial")),
	}
}

// Generate returns the next serial number for the day of ref. The day
// prefix is computed once per call; calls straddling midnight simply draw
// from different counters.
func (g *SerialGenerator) Generate(ctx context.Context, ref time.Time) (string, error) {
	dayPrefix := g.prefix + ref.Format("20060102")

	seq, err := g.repo.NextSerial(ctx, dayPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to advance serial counter for %s: %w", dayPrefix, err)
	}

	serial := fmt.Sprintf("%s%04d", dayPrefix, seq)

	g.logger.DebugContext(ctx, "serial number generated",
		slog.String("serial", serial),
		slog.Int("sequence", seq))

	return serial, nil
}
