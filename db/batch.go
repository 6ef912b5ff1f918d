package db

import "fmt"

// WithBatch runs fn against a fresh batch and commits it when fn returns
// nil. Any error discards the batch, so multi-key writes land together or
// not at all.
func WithBatch(provider DatabaseProvider, fn func(batch DatabaseBatch) error) error {
	batch := provider.Batch()
	defer batch.Close()

	if err := fn(batch); err != nil {
		batch.Reset()
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("batch commit: %w", err)
	}
	return nil
}
