package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/diewo77/jobtrack/internal/models"
	"go.uber.org/zap"
)

// PatchFunc persists a posting's new stage in the authoritative store.
type PatchFunc func(ctx context.Context, postingID string, stage models.Stage) error

// Reconciler owns the board state and drives it through Apply. Moves are
// optimistic: the column change is visible immediately, the backing patch
// runs in its own goroutine, and a rejected patch only surfaces a notice.
// Local and server state may diverge until the next Snapshot.
//
// Interaction happens on one logical thread, but patch outcomes arrive from
// goroutines; the mutex covers that boundary only. In-flight patches carry no
// timeout or cancellation, so multiple moves of different postings may
// complete out of order harmlessly.
type Reconciler struct {
	mu     sync.Mutex
	state  State
	patch  PatchFunc
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewReconciler(patch PatchFunc, logger *zap.Logger) *Reconciler {
	return &Reconciler{state: NewState(), patch: patch, logger: logger}
}

// Load rebuilds the board from a fresh server snapshot, discarding all
// optimistic state and pending notices.
func (r *Reconciler) Load(postings []models.Posting) {
	cards := make([]Card, 0, len(postings))
	for _, p := range postings {
		cards = append(cards, Card{ID: p.ID, Title: p.Title, Company: p.Company, Stage: p.Stage})
	}
	r.Dispatch(Snapshot{Cards: cards})
}

// Dispatch applies one event and executes any resulting commands.
func (r *Reconciler) Dispatch(ev Event) {
	r.mu.Lock()
	next, cmds := Apply(r.state, ev)
	r.state = next
	r.mu.Unlock()

	for _, cmd := range cmds {
		patch, ok := cmd.(PatchStage)
		if !ok {
			continue
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if err := r.patch(context.Background(), patch.CardID, patch.Stage); err != nil {
				r.logger.Warn("stage patch rejected",
					zap.String("posting_id", patch.CardID),
					zap.String("stage", string(patch.Stage)),
					zap.Error(err))
				r.Dispatch(PatchFailed{Notice: fmt.Sprintf("Failed to move posting to %s", patch.Stage.Label())})
			}
		}()
	}
}

// State returns a copy of the current board state, safe to read while patches
// are in flight.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Columns = cloneColumns(r.state.Columns)
	s.Notices = append([]string(nil), r.state.Notices...)
	return s
}

// Wait blocks until all in-flight patches have completed. Test hook; the
// interaction path never waits.
func (r *Reconciler) Wait() { r.wg.Wait() }
