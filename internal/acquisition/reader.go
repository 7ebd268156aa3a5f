// Package acquisition reads live torque values from a gauge. The gauge
// emits one reading per line over a serial link; parsing is over a plain
// io.Reader so tests feed it canned streams.
package acquisition

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"github.com/c-trac/torquebench/internal/torque"
)

type Reader struct {
	log *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{log: logger}
}

// Stream reads lines from src until EOF or ctx cancellation, parsing each
// for a torque value and delivering hits on the returned channel. The
// channel closes when the stream ends. Lines without a number are skipped
// rather than treated as errors; gauges interleave status chatter with
// readings.
func (r *Reader) Stream(ctx context.Context, src io.Reader) <-chan float64 {
	out := make(chan float64)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(src)
		for scanner.Scan() {
			value, ok := torque.ParseReading(scanner.Text())
			if !ok {
				continue
			}
			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			r.log.Error("acquisition.stream_error", "error", err)
		}
	}()
	return out
}
