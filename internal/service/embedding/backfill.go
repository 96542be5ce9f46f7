package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/jpkr-backend/pkg/vecmath"
)

// row is one record awaiting an embedding.
type row struct {
	id   int64
	text string
}

// pageFunc lists up to limit rows lacking an embedding with id > afterID.
type pageFunc func(ctx context.Context, afterID int64, limit int) ([]row, error)

// updateFunc stores a unit vector for id.
type updateFunc func(ctx context.Context, id int64, vec []float32) error

// Backfill embeds every word and/or example that has no stored vector.
// Pages are read sequentially by id and embedded concurrently; the first
// error cancels the run. Rows with blank text are skipped.
func (s *Service) Backfill(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	if err := input.Validate(); err != nil {
		return BackfillResult{}, err
	}

	start := time.Now()
	var result BackfillResult

	if input.Target == TargetWords || input.Target == TargetAll {
		n, skipped, err := s.run(ctx, "words", input, s.wordPage, s.words.UpdateEmbedding)
		if err != nil {
			return result, fmt.Errorf("backfill words: %w", err)
		}
		result.Words = n
		result.Skipped += skipped
	}

	if input.Target == TargetExamples || input.Target == TargetAll {
		n, skipped, err := s.run(ctx, "examples", input, s.examplePage, s.examples.UpdateEmbedding)
		if err != nil {
			return result, fmt.Errorf("backfill examples: %w", err)
		}
		result.Examples = n
		result.Skipped += skipped
	}

	s.log.InfoContext(ctx, "backfill finished",
		slog.String("target", string(input.Target)),
		slog.Int("words", result.Words),
		slog.Int("examples", result.Examples),
		slog.Int("skipped", result.Skipped),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}

func (s *Service) run(
	ctx context.Context,
	table string,
	input BackfillInput,
	page pageFunc,
	update updateFunc,
) (int, int, error) {
	var written, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(input.Concurrency)

	var after int64
	for {
		rows, err := page(gctx, after, input.BatchSize)
		if err != nil {
			// A failed batch cancels gctx; report that failure, not the
			// listing error it caused.
			if werr := g.Wait(); werr != nil {
				err = werr
			} else {
				err = fmt.Errorf("list %s: %w", table, err)
			}
			return int(written.Load()), int(skipped.Load()), err
		}
		if len(rows) == 0 {
			break
		}
		after = rows[len(rows)-1].id

		batch := make([]row, 0, len(rows))
		for _, r := range rows {
			if strings.TrimSpace(r.text) == "" {
				skipped.Add(1)
				continue
			}
			batch = append(batch, r)
		}
		if len(batch) == 0 {
			continue
		}

		g.Go(func() error {
			n, err := s.embedBatch(gctx, batch, update)
			if err != nil {
				return err
			}
			written.Add(int64(n))
			s.log.DebugContext(gctx, "batch embedded", slog.String("table", table), slog.Int("rows", n))
			return nil
		})

		if gctx.Err() != nil {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return int(written.Load()), int(skipped.Load()), err
	}
	return int(written.Load()), int(skipped.Load()), nil
}

// embedBatch embeds batch in one provider call and writes all vectors in a
// single transaction.
func (s *Service) embedBatch(ctx context.Context, batch []row, update updateFunc) (int, error) {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = r.text
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed rows %d..%d: %w", batch[0].id, batch[len(batch)-1].id, err)
	}
	if len(vecs) != len(batch) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d rows", len(vecs), len(batch))
	}

	dims := s.embedder.Dimensions()
	unit := make([][]float32, len(vecs))
	for i, v := range vecs {
		if len(v) != dims {
			return 0, fmt.Errorf("row %d: embedding has %d dims, want %d", batch[i].id, len(v), dims)
		}
		if vecmath.Norm(v) == 0 {
			return 0, fmt.Errorf("row %d: zero embedding", batch[i].id)
		}
		unit[i] = vecmath.Normalize(v)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i, r := range batch {
			if err := update(ctx, r.id, unit[i]); err != nil {
				return fmt.Errorf("update row %d: %w", r.id, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *Service) wordPage(ctx context.Context, afterID int64, limit int) ([]row, error) {
	words, err := s.words.ListMissingEmbedding(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]row, len(words))
	for i, w := range words {
		rows[i] = row{id: w.ID, text: w.Lemma}
	}
	return rows, nil
}

func (s *Service) examplePage(ctx context.Context, afterID int64, limit int) ([]row, error) {
	examples, err := s.examples.ListMissingEmbedding(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]row, len(examples))
	for i, e := range examples {
		rows[i] = row{id: e.ID, text: e.JPText}
	}
	return rows, nil
}
