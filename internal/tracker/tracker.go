package tracker

import (
	"fmt"
	"time"

	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/models"
)

// Undo history is bounded; once full, the oldest entries fall off.
const maxUndoDepth = 100

// Tracker is the single logical owner of one plan's (config, outcome log)
// pair. Every mutation re-runs the full replay; there is no incremental-patch
// path to keep consistent with it.
type Tracker struct {
	program  *models.Program
	cfg      models.Config
	outcomes []models.Outcome
	undo     []models.UndoEntry
	baseline *models.Snapshot
	rows     []models.WorkoutRow
}

// New builds a tracker over persisted state and runs the initial replay.
// baseline may be nil, in which case nothing is flagged as changed.
func New(program *models.Program, cfg models.Config, outcomes []models.Outcome, undo []models.UndoEntry, baseline *models.Snapshot) *Tracker {
	t := &Tracker{
		program:  program,
		cfg:      cfg,
		outcomes: outcomes,
		undo:     undo,
		baseline: baseline,
	}
	t.replay()
	return t
}

func (t *Tracker) replay() {
	rows := engine.Replay(t.program, t.cfg, t.outcomes)
	engine.MarkChanged(t.baseline, rows)
	t.rows = rows
}

func (t *Tracker) Rows() []models.WorkoutRow  { return t.rows }
func (t *Tracker) Config() models.Config      { return t.cfg }
func (t *Tracker) Outcomes() []models.Outcome { return t.outcomes }
func (t *Tracker) Undo() []models.UndoEntry   { return t.undo }
func (t *Tracker) Program() *models.Program   { return t.program }

// Snapshot reduces the current replay to the baseline format for the next
// invocation's is-changed diff.
func (t *Tracker) Snapshot(planID string) *models.Snapshot {
	return engine.SnapshotOf(planID, t.rows)
}

// latest returns the currently effective outcome for a slot occurrence, or
// nil when it was never logged. The log is append-only; the last entry wins.
func (t *Tracker) latest(workoutIndex int, slotID string) *models.Outcome {
	for i := len(t.outcomes) - 1; i >= 0; i-- {
		oc := &t.outcomes[i]
		if oc.WorkoutIndex == workoutIndex && oc.SlotID == slotID {
			return oc
		}
	}
	return nil
}

// validateTarget rejects edits aimed at a (workout, slot) pair the definition
// does not materialize. Rejection happens before any mutation.
func (t *Tracker) validateTarget(workoutIndex int, slotID string) error {
	if workoutIndex < 0 || workoutIndex >= t.program.TotalWorkoutCount() {
		return fmt.Errorf("workout %d is outside the program (0..%d)", workoutIndex, t.program.TotalWorkoutCount()-1)
	}
	day := t.program.DayFor(workoutIndex)
	if day == nil || day.SlotByID(slotID) == nil {
		return fmt.Errorf("slot %q does not exist in workout %d", slotID, workoutIndex)
	}
	return nil
}

// LogOutcome appends a result for one slot occurrence, pushing whatever it
// overwrote onto the undo stack, and re-replays.
func (t *Tracker) LogOutcome(workoutIndex int, slotID string, oc models.Outcome) error {
	if err := t.validateTarget(workoutIndex, slotID); err != nil {
		return err
	}
	if oc.Result != models.ResultSuccess && oc.Result != models.ResultFail {
		return fmt.Errorf("result must be %q or %q", models.ResultSuccess, models.ResultFail)
	}

	oc.WorkoutIndex = workoutIndex
	oc.SlotID = slotID
	if oc.LoggedAt.IsZero() {
		oc.LoggedAt = time.Now().UTC()
	}

	var previous *models.Outcome
	if cur := t.latest(workoutIndex, slotID); cur != nil {
		copied := *cur
		previous = &copied
	}
	t.undo = append(t.undo, models.UndoEntry{
		WorkoutIndex: workoutIndex,
		SlotID:       slotID,
		Previous:     previous,
	})
	if len(t.undo) > maxUndoDepth {
		t.undo = t.undo[len(t.undo)-maxUndoDepth:]
	}

	t.outcomes = append(t.outcomes, oc)
	t.replay()
	return nil
}

// UndoLast pops the most recent undo entry, restores the outcome it
// overwrote, and re-replays.
func (t *Tracker) UndoLast() error {
	if len(t.undo) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	entry := t.undo[len(t.undo)-1]
	t.undo = t.undo[:len(t.undo)-1]
	t.restore(entry)
	t.replay()
	return nil
}

// UndoSpecific undoes the most recent edit of one particular slot occurrence,
// removing its entry from the middle of the stack without disturbing
// unrelated entries.
func (t *Tracker) UndoSpecific(workoutIndex int, slotID string) error {
	for i := len(t.undo) - 1; i >= 0; i-- {
		entry := t.undo[i]
		if entry.WorkoutIndex != workoutIndex || entry.SlotID != slotID {
			continue
		}
		t.undo = append(t.undo[:i], t.undo[i+1:]...)
		t.restore(entry)
		t.replay()
		return nil
	}
	return fmt.Errorf("no logged edit for slot %q at workout %d", slotID, workoutIndex)
}

// restore rewrites the log so the entry's previous outcome is effective
// again. Previous == nil means the occurrence goes back to not-yet-attempted.
func (t *Tracker) restore(entry models.UndoEntry) {
	filtered := t.outcomes[:0]
	for _, oc := range t.outcomes {
		if oc.WorkoutIndex == entry.WorkoutIndex && oc.SlotID == entry.SlotID {
			continue
		}
		filtered = append(filtered, oc)
	}
	t.outcomes = filtered
	if entry.Previous != nil {
		t.outcomes = append(t.outcomes, *entry.Previous)
	}
}

// ResetAll clears the outcome log and the undo stack, returning the plan to
// its seeded-from-config state.
func (t *Tracker) ResetAll() {
	t.outcomes = nil
	t.undo = nil
	t.replay()
}

// UpdateConfig swaps the config record and re-replays. Historical weights are
// untouched by definition: logged outcomes stay logged, only projections move.
func (t *Tracker) UpdateConfig(cfg models.Config) {
	t.cfg = cfg
	t.replay()
}
