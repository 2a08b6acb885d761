package reconcile

import (
	"context"
	"fmt"

	"quizbank/internal/store"
)

// Apply commits the plan in two independent phases: deletions first, then
// creations and updates. Each phase is split into atomic batches of at most
// store.MaxBatchOps operations. A failing batch aborts the run with a single
// terminal error; already-committed batches are not rolled back. Re-running
// converges because Diff is idempotent.
func Apply(ctx context.Context, st store.Store, plan Plan) error {
	for chunk := range chunks(len(plan.Deletes)) {
		batch := st.Batch()
		for _, id := range plan.Deletes[chunk.start:chunk.end] {
			batch.Delete(InfographicsCollection, id)
		}
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("reconcile delete batch: %w", err)
		}
	}

	writes := make([]write, 0, len(plan.Creates)+len(plan.Updates))
	for _, c := range plan.Creates {
		writes = append(writes, write{id: c.ID, data: c.Data, merge: false})
	}
	for _, u := range plan.Updates {
		writes = append(writes, write{id: u.ID, data: u.Data, merge: true})
	}
	for chunk := range chunks(len(writes)) {
		batch := st.Batch()
		for _, w := range writes[chunk.start:chunk.end] {
			batch.Set(InfographicsCollection, w.id, w.data, w.merge)
		}
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("reconcile write batch: %w", err)
		}
	}
	return nil
}

type write struct {
	id    string
	data  store.Document
	merge bool
}

type span struct {
	start, end int
}

// chunks yields [start, end) ranges of at most store.MaxBatchOps elements.
func chunks(n int) func(yield func(span) bool) {
	return func(yield func(span) bool) {
		for start := 0; start < n; start += store.MaxBatchOps {
			end := min(start+store.MaxBatchOps, n)
			if !yield(span{start: start, end: end}) {
				return
			}
		}
	}
}
