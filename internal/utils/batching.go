package utils

import "log/slog"

const BATCH_SIZE = 500

// Batch is a contiguous slice of items and the offset of its first item.
type Batch[T any] struct {
	Offset int
	Items  []T
}

// Batches splits items into consecutive batches of at most size items. The
// batches share the backing array of items.
func Batches[T any](items []T, size int) []Batch[T] {
	if size <= 0 {
		size = BATCH_SIZE
	}
	if len(items) == 0 {
		return nil
	}

	out := make([]Batch[T], 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, Batch[T]{Offset: start, Items: items[start:end:end]})
	}
	return out
}

func (b Batch[T]) LogBatchProcessing(batchType string, total int) {
	slog.Debug("[Batch] Processing batch",
		slog.String("type", batchType),
		slog.Int("offset", b.Offset),
		slog.Int("batch_size", len(b.Items)),
		slog.Int("total", total))
}
