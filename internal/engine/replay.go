package engine

import (
	"github.com/misterclayt0n/ferro/internal/models"
)

type outcomeKey struct {
	workoutIndex int
	slotID       string
}

// Replay materializes the full schedule from scratch: program definition +
// config + outcome log in, ordered workout rows out. It is pure and
// deterministic; no state survives between calls, which is what makes undo
// and config edits safe to handle by simply re-running it.
//
// Cross-slot coupling: slots sharing a training-max key see writes fired by
// any slot's update_tm action. Within one workout index every row is
// materialized from the state as of the start of that workout, then every
// transition is applied in program slot order, so a TM write at workout k is
// first visible at k+1.
func Replay(def *models.Program, cfg models.Config, outcomes []models.Outcome) []models.WorkoutRow {
	// Working copy of the numeric reference values; update_tm mutates it as
	// the replay walks forward, the caller's record stays untouched.
	vals := cfg.Clone().Values

	// The log is append-only; the latest entry per (workout, slot) wins.
	latest := make(map[outcomeKey]*models.Outcome)
	for i := range outcomes {
		oc := &outcomes[i]
		latest[outcomeKey{oc.WorkoutIndex, oc.SlotID}] = oc
	}

	// Compile every slot once and seed its state at workout 0. A slot that
	// fails to compile or resolve renders as unresolved on every occurrence;
	// the rest of the program still replays.
	compiled := make(map[string]*compiledSlot)
	states := make(map[string]slotState)
	problems := make(map[string]string)
	for di := range def.Days {
		for si := range def.Days[di].Slots {
			slot := &def.Days[di].Slots[si]
			cs, err := compileSlot(slot)
			if err != nil {
				problems[slot.ID] = err.Error()
				continue
			}
			st, err := cs.seed(vals)
			if err != nil {
				problems[slot.ID] = err.Error()
				continue
			}
			compiled[slot.ID] = cs
			states[slot.ID] = st
		}
	}

	total := def.TotalWorkoutCount()
	rows := make([]models.WorkoutRow, 0, total)

	for i := 0; i < total; i++ {
		day := def.DayFor(i)
		if day == nil {
			break
		}

		row := models.WorkoutRow{Index: i, DayName: day.Name}

		// Materialize every slot of this workout before applying any of its
		// outcomes.
		for si := range day.Slots {
			slot := &day.Slots[si]
			oc := latest[outcomeKey{i, slot.ID}]

			cs, ok := compiled[slot.ID]
			if !ok {
				row.Slots = append(row.Slots, models.SlotRow{
					SlotID:     slot.ID,
					Exercise:   slot.Exercise,
					Tier:       slot.Tier,
					Role:       slot.Role,
					Unresolved: true,
					Problem:    problems[slot.ID],
				})
				continue
			}

			sr := cs.materialize(states[slot.ID], vals)
			if oc != nil {
				sr.Result = oc.Result
				sr.AmrapReps = oc.AmrapReps
				sr.RPE = oc.RPE
			}
			row.Slots = append(row.Slots, sr)
		}

		// Now transition, in program slot order. TM writes land in vals and
		// are only read by workout i+1 onward.
		for si := range day.Slots {
			slot := &day.Slots[si]
			cs, ok := compiled[slot.ID]
			if !ok {
				continue
			}
			oc := latest[outcomeKey{i, slot.ID}]
			states[slot.ID] = cs.transition(states[slot.ID], oc, vals)
		}

		rows = append(rows, row)
	}

	return rows
}

// SnapshotOf reduces a replay result to the compact baseline used for
// is-changed diffing on the next replay.
func SnapshotOf(planID string, rows []models.WorkoutRow) *models.Snapshot {
	snap := &models.Snapshot{PlanID: planID}
	for _, row := range rows {
		for _, sr := range row.Slots {
			if sr.IsGpp || sr.Unresolved {
				continue
			}
			snap.Rows = append(snap.Rows, models.SnapshotRow{
				WorkoutIndex: row.Index,
				SlotID:       sr.SlotID,
				Weight:       sr.Weight,
			})
		}
	}
	return snap
}

// MarkChanged flags every row whose computed weight differs from the previous
// replay's snapshot at the same (workout, slot). The flag only tells the
// renderer "this row moved because of an earlier edit"; it never gates
// correctness, and Replay itself stays free of memory of prior calls.
func MarkChanged(prev *models.Snapshot, rows []models.WorkoutRow) {
	if prev == nil {
		return
	}

	before := make(map[outcomeKey]float64, len(prev.Rows))
	for _, r := range prev.Rows {
		before[outcomeKey{r.WorkoutIndex, r.SlotID}] = r.Weight
	}

	for ri := range rows {
		for si := range rows[ri].Slots {
			sr := &rows[ri].Slots[si]
			if sr.IsGpp || sr.Unresolved {
				continue
			}
			if w, ok := before[outcomeKey{rows[ri].Index, sr.SlotID}]; ok && w != sr.Weight {
				sr.IsChanged = true
			}
		}
	}
}
