// package runner drives a batch: one identifier per input line, one result
// row per identifier, written as soon as it is classified.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mikelcoira/vat-number-geo/internal/resolver"
)

// Resolver classifies a single raw identifier.
type Resolver interface {
	Resolve(ctx context.Context, raw string) resolver.Record
}

// Run processes input strictly sequentially: each line is fully classified
// and its row flushed to out before the next line is read, so an interrupted
// run still leaves usable partial output. Rows are written as
// "<id>,<country>,<error>\n" with empty fields for success rows. It returns
// the number of records written.
func Run(ctx context.Context, res Resolver, in io.Reader, out io.Writer) (int, error) {
	runID := uuid.NewString()
	slog.InfoContext(ctx, "starting batch", "run_id", runID)

	written := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		rec := res.Resolve(ctx, scanner.Text())
		slog.DebugContext(ctx, "processed identifier",
			"run_id", runID,
			"id", rec.ID,
			"country", rec.Country,
			"error", rec.Err,
		)

		if _, err := fmt.Fprintf(out, "%s,%s,%s\n", rec.ID, rec.Country, rec.Err); err != nil {
			return written, fmt.Errorf("write result row: %w", err)
		}
		written++
	}
	if err := scanner.Err(); err != nil {
		return written, fmt.Errorf("read input: %w", err)
	}

	slog.InfoContext(ctx, "batch finished", "run_id", runID, "records", written)
	return written, nil
}
