// Package board mirrors the authoritative posting set into per-stage columns
// and applies user-initiated moves optimistically. All transitions are pure
// functions from (state, event) to (state, commands); the commands carry the
// side-effecting store calls so the machine itself stays deterministic.
package board

import "github.com/diewo77/jobtrack/internal/models"

// Card is the column-resident projection of a posting.
type Card struct {
	ID      string
	Title   string
	Company string
	Stage   models.Stage
}

// Columns partitions cards by stage. Within a column, newly arrived cards are
// prepended (most-recent-first). This ordering is local-only: a fresh snapshot
// reorders by creation time.
type Columns map[models.Stage][]Card

// DragState is the drag session machine:
// Idle -> Dragging(card, origin) -> {hovering a column | Idle}.
type DragState struct {
	Active   bool
	CardID   string
	Origin   models.Stage
	Hovering bool
	Hover    models.Stage
}

// State is the board's entire client-resident state. It is owned by the
// Reconciler and never shared mutable.
type State struct {
	Columns Columns
	Drag    DragState
	// Notices are user-visible failure messages from rejected patches.
	Notices []string
}

// Event is a board input: a server snapshot, a drag gesture, an advance
// click, or a patch outcome.
type Event interface{ boardEvent() }

// Snapshot replaces the whole board from a fresh server fetch, discarding any
// prior optimistic state. This is the synchronization point.
type Snapshot struct{ Cards []Card }

// DragStart begins a drag session for one card. Only one drag is active at a
// time; starting a new one replaces the old session without mutation.
type DragStart struct {
	CardID string
	From   models.Stage
}

// DragEnter marks a column as the current drop target.
type DragEnter struct{ Target models.Stage }

// DragLeave clears the current drop target without ending the drag.
type DragLeave struct{}

// DragCancel aborts the drag session with no side effect.
type DragCancel struct{}

// Drop releases the dragged card over a column, triggering a move.
type Drop struct{ Target models.Stage }

// Advance moves a card to the next stage in the fixed cyclic order.
type Advance struct{ CardID string }

// PatchFailed reports that the authoritative patch behind a move was
// rejected. The optimistic move is kept; the notice signals the divergence.
type PatchFailed struct{ Notice string }

func (Snapshot) boardEvent()    {}
func (DragStart) boardEvent()   {}
func (DragEnter) boardEvent()   {}
func (DragLeave) boardEvent()   {}
func (DragCancel) boardEvent()  {}
func (Drop) boardEvent()        {}
func (Advance) boardEvent()     {}
func (PatchFailed) boardEvent() {}

// Command is a side effect requested by a transition.
type Command interface{ boardCommand() }

// PatchStage asks the store to persist a card's new stage.
type PatchStage struct {
	CardID string
	Stage  models.Stage
}

func (PatchStage) boardCommand() {}

// NewState returns an empty board with all four columns present.
func NewState() State {
	return State{Columns: emptyColumns()}
}

func emptyColumns() Columns {
	c := make(Columns, len(models.Stages))
	for _, stage := range models.Stages {
		c[stage] = nil
	}
	return c
}

// Partition builds columns from a server snapshot, preserving its order
// (creation time descending) within each column.
func Partition(postings []models.Posting) Columns {
	cols := emptyColumns()
	for _, p := range postings {
		cols[p.Stage] = append(cols[p.Stage], Card{ID: p.ID, Title: p.Title, Company: p.Company, Stage: p.Stage})
	}
	return cols
}

// Apply is the single transition function. It never mutates its input.
func Apply(s State, ev Event) (State, []Command) {
	switch e := ev.(type) {
	case Snapshot:
		next := NewState()
		for _, card := range e.Cards {
			next.Columns[card.Stage] = append(next.Columns[card.Stage], card)
		}
		return next, nil

	case DragStart:
		next := s
		next.Drag = DragState{Active: true, CardID: e.CardID, Origin: e.From}
		return next, nil

	case DragEnter:
		if !s.Drag.Active {
			return s, nil
		}
		next := s
		next.Drag.Hovering = true
		next.Drag.Hover = e.Target
		return next, nil

	case DragLeave:
		if !s.Drag.Active {
			return s, nil
		}
		next := s
		next.Drag.Hovering = false
		next.Drag.Hover = ""
		return next, nil

	case DragCancel:
		next := s
		next.Drag = DragState{}
		return next, nil

	case Drop:
		if !s.Drag.Active {
			return s, nil
		}
		next, cmds := move(s, s.Drag.CardID, s.Drag.Origin, e.Target)
		next.Drag = DragState{}
		return next, cmds

	case Advance:
		_, stage, ok := find(s.Columns, e.CardID)
		if !ok {
			return s, nil
		}
		return move(s, e.CardID, stage, stage.Next())

	case PatchFailed:
		next := s
		next.Notices = append(append([]string(nil), s.Notices...), e.Notice)
		return next, nil
	}
	return s, nil
}

// move removes the card from its origin column and prepends it to the target,
// then asks for the backing patch. Same-column moves are a no-op.
func move(s State, cardID string, from, to models.Stage) (State, []Command) {
	if from == to {
		return s, nil
	}
	source := s.Columns[from]
	index := -1
	for i, card := range source {
		if card.ID == cardID {
			index = i
			break
		}
	}
	if index == -1 {
		return s, nil
	}

	moved := source[index]
	moved.Stage = to

	next := s
	next.Columns = cloneColumns(s.Columns)
	next.Columns[from] = append(append([]Card(nil), source[:index]...), source[index+1:]...)
	next.Columns[to] = append([]Card{moved}, s.Columns[to]...)

	return next, []Command{PatchStage{CardID: cardID, Stage: to}}
}

func find(cols Columns, cardID string) (Card, models.Stage, bool) {
	for _, stage := range models.Stages {
		for _, card := range cols[stage] {
			if card.ID == cardID {
				return card, stage, true
			}
		}
	}
	return Card{}, "", false
}

func cloneColumns(cols Columns) Columns {
	next := make(Columns, len(cols))
	for stage, cards := range cols {
		next[stage] = append([]Card(nil), cards...)
	}
	return next
}
