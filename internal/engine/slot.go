package engine

import (
	"fmt"
	"math"

	"github.com/misterclayt0n/ferro/internal/models"
)

type slotMode int

const (
	modeStages slotMode = iota
	modeLadder
	modeGpp
)

// action is a compiled transition rule.
type action struct {
	kind         ActionKind
	amount       float64
	percent      float64
	minAmrapReps int
}

// compiledSlot is a slot definition with its transition rules resolved into
// the closed action enum. Compilation failures surface as per-row problems
// during replay, not as a replay abort.
type compiledSlot struct {
	def  *models.Slot
	mode slotMode

	onSuccess           action
	onMidStageFail      action
	onFinalStageFail    action
	onFinalStageSuccess *action // nil falls back to onSuccess
	onUndefined         action
}

// slotState is the state carried across a slot's occurrences in program
// order: tracked weight, stage index, and whether the previous transition was
// a deload (shown on the following occurrence).
type slotState struct {
	weight float64
	stage  int
	deload bool
}

func compileRule(raw *models.Action) (action, error) {
	if raw == nil {
		return action{kind: ActionNoChange}, nil
	}
	kind, err := ParseActionKind(raw.Type)
	if err != nil {
		return action{}, err
	}
	return action{
		kind:         kind,
		amount:       raw.Amount,
		percent:      raw.Percent,
		minAmrapReps: raw.MinAmrapReps,
	}, nil
}

func compileSlot(def *models.Slot) (*compiledSlot, error) {
	cs := &compiledSlot{def: def}

	switch {
	case def.IsGpp:
		cs.mode = modeGpp
		return cs, nil
	case len(def.Prescriptions) > 0:
		cs.mode = modeLadder
		if def.PercentOf == "" {
			return nil, fmt.Errorf("prescription slot has no percent_of key")
		}
		return cs, nil
	case len(def.Stages) > 0:
		cs.mode = modeStages
	default:
		return nil, fmt.Errorf("slot declares no progression mode")
	}

	var err error
	if cs.onSuccess, err = compileRule(def.OnSuccess); err != nil {
		return nil, fmt.Errorf("on_success: %w", err)
	}
	if cs.onMidStageFail, err = compileRule(def.OnMidStageFail); err != nil {
		return nil, fmt.Errorf("on_mid_stage_fail: %w", err)
	}
	if cs.onFinalStageFail, err = compileRule(def.OnFinalStageFail); err != nil {
		return nil, fmt.Errorf("on_final_stage_fail: %w", err)
	}
	if def.OnFinalStageSuccess != nil {
		fs, err := compileRule(def.OnFinalStageSuccess)
		if err != nil {
			return nil, fmt.Errorf("on_final_stage_success: %w", err)
		}
		cs.onFinalStageSuccess = &fs
	}
	if cs.onUndefined, err = compileRule(def.OnUndefined); err != nil {
		return nil, fmt.Errorf("on_undefined: %w", err)
	}

	if def.StartWeightKey == "" && def.TrainingMaxKey == "" {
		return nil, fmt.Errorf("stage slot has neither start_weight_key nor training_max_key")
	}

	return cs, nil
}

// seed resolves the slot's starting state at workout 0 from the config.
func (cs *compiledSlot) seed(vals map[string]float64) (slotState, error) {
	def := cs.def

	if cs.mode == modeGpp {
		return slotState{}, nil
	}

	if cs.mode == modeLadder {
		if _, ok := vals[def.PercentOf]; !ok {
			return slotState{}, fmt.Errorf("percent_of key %q not in config", def.PercentOf)
		}
		return slotState{}, nil
	}

	if def.TrainingMaxKey != "" {
		if _, ok := vals[def.TrainingMaxKey]; !ok {
			return slotState{}, fmt.Errorf("training_max_key %q not in config", def.TrainingMaxKey)
		}
		// Weight is derived from the TM at every occurrence.
		return slotState{}, nil
	}

	base, ok := vals[def.StartWeightKey]
	if !ok {
		return slotState{}, fmt.Errorf("start_weight_key %q not in config", def.StartWeightKey)
	}
	mult := def.Multiplier
	if mult == 0 {
		mult = 1
	}
	return slotState{weight: base*mult + def.Offset}, nil
}

// currentWeight is the slot's unrounded working weight at one occurrence,
// given the reference values as of that workout.
func (cs *compiledSlot) currentWeight(st slotState, vals map[string]float64) float64 {
	if cs.def.TrainingMaxKey != "" {
		return vals[cs.def.TrainingMaxKey] * cs.def.TMPercent / 100
	}
	return st.weight
}

// materialize builds the row for one occurrence BEFORE that occurrence's
// outcome is considered.
func (cs *compiledSlot) materialize(st slotState, vals map[string]float64) models.SlotRow {
	def := cs.def
	row := models.SlotRow{
		SlotID:   def.ID,
		Exercise: def.Exercise,
		Tier:     def.Tier,
		Role:     def.Role,
	}

	switch cs.mode {
	case modeGpp:
		row.IsGpp = true

	case modeLadder:
		ref := vals[def.PercentOf]
		for i, p := range def.Prescriptions {
			row.Prescriptions = append(row.Prescriptions, models.PrescriptionRow{
				Percent: p.Percent,
				Weight:  roundToIncrement(ref*p.Percent/100, def.Increment),
				Reps:    p.Reps,
				Sets:    p.Sets,
				Warmup:  i < len(def.Prescriptions)-1,
			})
		}
		working := row.Prescriptions[len(row.Prescriptions)-1]
		row.Weight = working.Weight
		row.Sets = working.Sets
		row.Reps = working.Reps

	case modeStages:
		idx := st.stage
		if idx > len(def.Stages)-1 {
			idx = len(def.Stages) - 1
		}
		stage := def.Stages[idx]
		row.Stage = idx
		row.Sets = stage.Sets
		row.Reps = stage.Reps
		row.IsAmrap = stage.Amrap
		row.RepsMax = stage.RepsMax
		row.Weight = roundToIncrement(cs.currentWeight(st, vals), def.Increment)
		row.IsDeload = st.deload
	}

	return row
}

// transition computes the state for the slot's next occurrence AFTER this
// occurrence's outcome is known. TM writes go into vals, which the replay
// engine shares across all slots referencing the same key.
func (cs *compiledSlot) transition(st slotState, oc *models.Outcome, vals map[string]float64) slotState {
	if cs.mode != modeStages {
		return st
	}

	stageIdx := st.stage
	if stageIdx > len(cs.def.Stages)-1 {
		stageIdx = len(cs.def.Stages) - 1
	}
	act := cs.pick(oc, stageIdx)

	next := st
	next.deload = false

	switch act.kind {
	case ActionNoChange:
		// Carries state forward unchanged so future projections stay
		// stable until actually logged.

	case ActionAdvanceStage:
		if next.stage < len(cs.def.Stages)-1 {
			next.stage++
		}

	case ActionAddWeight:
		next.weight += act.amount

	case ActionAddWeightResetStage:
		next.weight += act.amount
		next.stage = 0

	case ActionUpdateTM:
		// Gated: only an AMRAP stage that met the rep threshold moves the
		// training max, and the write is visible from the next workout on.
		if cs.def.TrainingMaxKey == "" || oc == nil {
			break
		}
		if !cs.def.Stages[stageIdx].Amrap {
			break
		}
		if oc.AmrapReps < act.minAmrapReps {
			break
		}
		vals[cs.def.TrainingMaxKey] += act.amount

	case ActionDeloadPercent:
		next.weight *= 1 - act.percent/100
		next.stage = 0
		next.deload = true
	}

	return next
}

// pick selects the transition rule for an outcome at a stage index.
func (cs *compiledSlot) pick(oc *models.Outcome, stageIdx int) action {
	final := stageIdx >= len(cs.def.Stages)-1

	result := models.ResultUndefined
	if oc != nil {
		result = oc.Result
	}

	switch result {
	case models.ResultSuccess:
		if final && cs.onFinalStageSuccess != nil {
			return *cs.onFinalStageSuccess
		}
		return cs.onSuccess
	case models.ResultFail:
		if final {
			return cs.onFinalStageFail
		}
		return cs.onMidStageFail
	default:
		return cs.onUndefined
	}
}

// roundToIncrement rounds a weight to the nearest multiple of the slot's
// configured increment. Materialized weights are never left unrounded.
func roundToIncrement(weight, increment float64) float64 {
	if increment <= 0 {
		return weight
	}
	return math.Round(weight/increment) * increment
}
