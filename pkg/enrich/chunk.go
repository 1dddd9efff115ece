package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Chunk splits items into slices of at most size elements. A size <= 0
// falls back to DefaultChunkSize.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// fetchChunked runs fn once per chunk of ids, concurrently. Results are
// placed in index-addressed slots and flattened in chunk order, so the
// merged output does not depend on chunk completion order.
func fetchChunked[T any](
	ctx context.Context,
	ids []int64,
	size int,
	fn func(ctx context.Context, chunk []int64) ([]T, error),
) ([]T, error) {
	chunks := Chunk(ids, size)
	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) == 1 {
		return fn(ctx, chunks[0])
	}

	results := make([][]T, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			rows, err := fn(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []T
	for _, rows := range results {
		merged = append(merged, rows...)
	}
	return merged, nil
}
