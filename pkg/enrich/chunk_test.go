package enrich

import (
	"context"
	"sort"
	"testing"
)

func TestChunk(t *testing.T) {
	items := make([]int, 10)
	for i := range items {
		items[i] = i
	}

	chunks := Chunk(items, 3)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 3 || chunks[0][0] != 0 || chunks[0][2] != 2 {
		t.Fatalf("unexpected first chunk: %v", chunks[0])
	}
	if len(chunks[3]) != 1 || chunks[3][0] != 9 {
		t.Fatalf("unexpected last chunk: %v", chunks[3])
	}
}

func TestChunk_Empty(t *testing.T) {
	if chunks := Chunk([]int{}, 3); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestChunk_SmallerThanSize(t *testing.T) {
	chunks := Chunk([]int{1, 2}, 5)
	if len(chunks) != 1 || len(chunks[0]) != 2 {
		t.Fatalf("expected single chunk of 2, got %v", chunks)
	}
}

func TestChunk_DefaultSize(t *testing.T) {
	items := make([]int64, 1000)
	chunks := Chunk(items, 0)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != DefaultChunkSize {
		t.Fatalf("expected first chunk of %d, got %d", DefaultChunkSize, len(chunks[0]))
	}
	if len(chunks[1]) != 1000-DefaultChunkSize {
		t.Fatalf("expected second chunk of %d, got %d", 1000-DefaultChunkSize, len(chunks[1]))
	}
}

func TestFetchChunked_MatchesUnchunked(t *testing.T) {
	ids := make([]int64, 2150)
	for i := range ids {
		ids[i] = int64(i)
	}

	double := func(ctx context.Context, chunk []int64) ([]int64, error) {
		out := make([]int64, 0, len(chunk))
		for _, id := range chunk {
			out = append(out, id*2)
		}
		return out, nil
	}

	chunked, err := fetchChunked(context.Background(), ids, 900, double)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reference, err := double(context.Background(), ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunked) != len(reference) {
		t.Fatalf("expected %d results, got %d", len(reference), len(chunked))
	}
	sort.Slice(chunked, func(i, j int) bool { return chunked[i] < chunked[j] })
	sort.Slice(reference, func(i, j int) bool { return reference[i] < reference[j] })
	for i := range reference {
		if chunked[i] != reference[i] {
			t.Fatalf("result mismatch at %d: %d != %d", i, chunked[i], reference[i])
		}
	}
}

func TestFetchChunked_PreservesChunkOrder(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	identity := func(ctx context.Context, chunk []int64) ([]int64, error) {
		return chunk, nil
	}
	out, err := fetchChunked(context.Background(), ids, 2, identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, id := range ids {
		if out[i] != id {
			t.Fatalf("expected %v in order, got %v", ids, out)
		}
	}
}
