package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/misterclayt0n/ferro/internal/models"
)

// Absurd-input ceiling for weight fields, in kg.
const maxFieldWeight = 1000.0

// FieldErrors maps config field keys to validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for key, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", key, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateConfig coerces raw user input into a typed config record. It is
// atomic: either every field is accepted or none of it is, and errors come
// back indexed by field key.
func ValidateConfig(fields []models.ConfigField, raw map[string]string) (models.Config, FieldErrors) {
	cfg := models.Config{
		Values:  make(map[string]float64),
		Choices: make(map[string]string),
	}
	errs := make(FieldErrors)

	for _, field := range fields {
		value, ok := raw[field.Key]
		if !ok || strings.TrimSpace(value) == "" {
			errs[field.Key] = "required"
			continue
		}

		switch field.Kind {
		case models.FieldWeight:
			n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				errs[field.Key] = "must be a number"
				continue
			}
			if n < field.Min {
				errs[field.Key] = fmt.Sprintf("must be at least %g", field.Min)
				continue
			}
			if n > maxFieldWeight {
				errs[field.Key] = fmt.Sprintf("must be at most %g", maxFieldWeight)
				continue
			}
			// Stored unrounded; rounding happens per-use, per-slot.
			cfg.Values[field.Key] = n

		case models.FieldChoice:
			matched := false
			for _, opt := range field.Options {
				if opt.Value == value {
					matched = true
					break
				}
			}
			if !matched {
				errs[field.Key] = fmt.Sprintf("not one of the declared options: %q", value)
				continue
			}
			cfg.Choices[field.Key] = value

		default:
			errs[field.Key] = fmt.Sprintf("unknown field kind %q", field.Kind)
		}
	}

	if len(errs) > 0 {
		return models.Config{}, errs
	}
	return cfg, nil
}

// SlotProblem is a per-slot definition error, detected once at load time.
// Problems never abort a replay; the affected slot renders as unresolved.
type SlotProblem struct {
	DayName string
	SlotID  string
	Problem string
}

func (p SlotProblem) String() string {
	return fmt.Sprintf("%s/%s: %s", p.DayName, p.SlotID, p.Problem)
}

// ValidateProgram checks the definition's internal consistency: every slot
// must carry exactly one progression mode and a weight-producing rule that
// resolves into the declared input fields.
func ValidateProgram(def *models.Program) []SlotProblem {
	var problems []SlotProblem

	weightKeys := make(map[string]bool)
	for _, f := range def.Inputs {
		if f.Kind == models.FieldWeight {
			weightKeys[f.Key] = true
		}
	}

	report := func(day *models.Day, slot *models.Slot, format string, args ...any) {
		problems = append(problems, SlotProblem{
			DayName: day.Name,
			SlotID:  slot.ID,
			Problem: fmt.Sprintf(format, args...),
		})
	}

	seen := make(map[string]bool)
	for di := range def.Days {
		day := &def.Days[di]
		for si := range day.Slots {
			slot := &day.Slots[si]

			if slot.ID == "" {
				report(day, slot, "slot has no id")
				continue
			}
			if seen[slot.ID] {
				report(day, slot, "duplicate slot id")
				continue
			}
			seen[slot.ID] = true

			modes := 0
			if slot.IsGpp {
				modes++
			}
			if len(slot.Stages) > 0 {
				modes++
			}
			if len(slot.Prescriptions) > 0 {
				modes++
			}
			if modes != 1 {
				report(day, slot, "slot must declare exactly one progression mode, has %d", modes)
				continue
			}

			switch {
			case slot.IsGpp:
				// Nothing to resolve.

			case len(slot.Prescriptions) > 0:
				if slot.PercentOf == "" {
					report(day, slot, "prescription slot has no percent_of key")
				} else if !weightKeys[slot.PercentOf] {
					report(day, slot, "percent_of key %q is not a declared weight field", slot.PercentOf)
				}
				if slot.Increment <= 0 {
					report(day, slot, "prescription slot needs a positive increment")
				}

			default:
				validateStageSlot(day, slot, weightKeys, report)
			}
		}
	}

	return problems
}

func validateStageSlot(day *models.Day, slot *models.Slot, weightKeys map[string]bool, report func(*models.Day, *models.Slot, string, ...any)) {
	if slot.Increment <= 0 {
		report(day, slot, "stage slot needs a positive increment")
	}

	switch {
	case slot.StartWeightKey != "" && slot.TrainingMaxKey != "":
		report(day, slot, "slot declares both start_weight_key and training_max_key")
	case slot.StartWeightKey != "":
		if !weightKeys[slot.StartWeightKey] {
			report(day, slot, "start_weight_key %q is not a declared weight field", slot.StartWeightKey)
		}
	case slot.TrainingMaxKey != "":
		if !weightKeys[slot.TrainingMaxKey] {
			report(day, slot, "training_max_key %q is not a declared weight field", slot.TrainingMaxKey)
		}
		if slot.TMPercent <= 0 {
			report(day, slot, "training_max_key without a positive tm_percent")
		}
	default:
		report(day, slot, "stage slot has neither start_weight_key nor training_max_key")
	}

	rules := map[string]*models.Action{
		"on_success":             slot.OnSuccess,
		"on_mid_stage_fail":      slot.OnMidStageFail,
		"on_final_stage_fail":    slot.OnFinalStageFail,
		"on_final_stage_success": slot.OnFinalStageSuccess,
		"on_undefined":           slot.OnUndefined,
	}
	for name, rule := range rules {
		if rule == nil {
			continue
		}
		kind, err := ParseActionKind(rule.Type)
		if err != nil {
			report(day, slot, "%s: %v", name, err)
			continue
		}
		if kind == ActionUpdateTM && slot.TrainingMaxKey == "" {
			report(day, slot, "%s: update_tm on a slot without training_max_key", name)
		}
		if (kind == ActionAddWeight || kind == ActionAddWeightResetStage || kind == ActionDeloadPercent) && slot.TrainingMaxKey != "" {
			report(day, slot, "%s: %s never materializes on a training-max slot, use update_tm", name, kind)
		}
	}
}
