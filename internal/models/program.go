package models

import "time"

const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
	RoleAccessory = "accessory"
)

const (
	FieldWeight = "weight"
	FieldChoice = "choice"
)

// Program is the immutable, declarative description of a training program.
// It is authored as a TOML file, imported once, and read-only afterwards.
// Version exists so a later revision of the rules never silently reinterprets
// a user's existing history.
type Program struct {
	ID              string        `json:"id" toml:"-"`
	Name            string        `json:"name" toml:"name"`
	Description     string        `json:"description" toml:"description"`
	Version         int           `json:"version" toml:"version"`
	Weeks           int           `json:"weeks" toml:"weeks"`
	WorkoutsPerWeek int           `json:"workouts_per_week" toml:"workouts_per_week"`
	TotalWorkouts   int           `json:"total_workouts" toml:"total_workouts"`
	Inputs          []ConfigField `json:"inputs" toml:"input"`
	Days            []Day         `json:"days" toml:"day"`
	CreatedAt       time.Time     `json:"created_at" toml:"-"`
}

// ConfigField declares one user-supplied input: either a weight field
// (min/step) or a choice field (options). These are the only source of
// starting numeric state external to the engine.
type ConfigField struct {
	Key     string        `json:"key" toml:"key"`
	Label   string        `json:"label" toml:"label"`
	Kind    string        `json:"kind" toml:"kind"`
	Min     float64       `json:"min,omitempty" toml:"min"`
	Step    float64       `json:"step,omitempty" toml:"step"`
	Group   string        `json:"group,omitempty" toml:"group"`
	Options []FieldOption `json:"options,omitempty" toml:"option"`
}

type FieldOption struct {
	Label string `json:"label" toml:"label"`
	Value string `json:"value" toml:"value"`
}

type Day struct {
	Name  string `json:"name" toml:"name"`
	Slots []Slot `json:"slots" toml:"slot"`
}

// Slot is the unit of progression. Exactly one of the three modes applies:
// stage-ladder (Stages + transition rules), prescription-ladder
// (Prescriptions + PercentOf), or GPP (pass/fail only, no weight).
type Slot struct {
	ID       string `json:"id" toml:"id"`
	Exercise string `json:"exercise" toml:"exercise"`
	Tier     string `json:"tier,omitempty" toml:"tier"`
	Role     string `json:"role" toml:"role"`
	IsGpp    bool   `json:"is_gpp,omitempty" toml:"is_gpp"`

	// Stage-ladder mode.
	Stages              []Stage `json:"stages,omitempty" toml:"stage"`
	OnSuccess           *Action `json:"on_success,omitempty" toml:"on_success"`
	OnMidStageFail      *Action `json:"on_mid_stage_fail,omitempty" toml:"on_mid_stage_fail"`
	OnFinalStageFail    *Action `json:"on_final_stage_fail,omitempty" toml:"on_final_stage_fail"`
	OnFinalStageSuccess *Action `json:"on_final_stage_success,omitempty" toml:"on_final_stage_success"`
	OnUndefined         *Action `json:"on_undefined,omitempty" toml:"on_undefined"`
	StartWeightKey      string  `json:"start_weight_key,omitempty" toml:"start_weight_key"`
	Multiplier          float64 `json:"multiplier,omitempty" toml:"multiplier"`
	Offset              float64 `json:"offset,omitempty" toml:"offset"`
	TrainingMaxKey      string  `json:"training_max_key,omitempty" toml:"training_max_key"`
	TMPercent           float64 `json:"tm_percent,omitempty" toml:"tm_percent"`

	// Prescription-ladder mode. The last entry is the working set, earlier
	// entries are warm-ups.
	Prescriptions []Prescription `json:"prescriptions,omitempty" toml:"prescription"`
	PercentOf     string         `json:"percent_of,omitempty" toml:"percent_of"`

	// Rounding increment for every materialized weight of this slot.
	Increment float64 `json:"increment,omitempty" toml:"increment"`
}

type Stage struct {
	Sets    int  `json:"sets" toml:"sets"`
	Reps    int  `json:"reps" toml:"reps"`
	Amrap   bool `json:"amrap,omitempty" toml:"amrap"`
	RepsMax int  `json:"reps_max,omitempty" toml:"reps_max"`
}

type Prescription struct {
	Percent float64 `json:"percent" toml:"percent"`
	Reps    int     `json:"reps" toml:"reps"`
	Sets    int     `json:"sets" toml:"sets"`
}

// Action is the raw tagged record as authored in the program file. The engine
// compiles it into a closed enum before interpreting it.
type Action struct {
	Type         string  `json:"type" toml:"type"`
	Amount       float64 `json:"amount,omitempty" toml:"amount"`
	Percent      float64 `json:"percent,omitempty" toml:"percent"`
	MinAmrapReps int     `json:"min_amrap_reps,omitempty" toml:"min_amrap_reps"`
}

// TotalWorkoutCount resolves the materialized schedule length, falling back to
// weeks × workouts/week when the program does not pin it explicitly.
func (p *Program) TotalWorkoutCount() int {
	if p.TotalWorkouts > 0 {
		return p.TotalWorkouts
	}
	if p.Weeks > 0 && p.WorkoutsPerWeek > 0 {
		return p.Weeks * p.WorkoutsPerWeek
	}
	return len(p.Days)
}

// DayFor returns the day template for the n-th materialized workout. Days
// repeat cyclically.
func (p *Program) DayFor(workoutIndex int) *Day {
	if len(p.Days) == 0 || workoutIndex < 0 {
		return nil
	}
	return &p.Days[workoutIndex%len(p.Days)]
}

func (d *Day) SlotByID(id string) *Slot {
	for i := range d.Slots {
		if d.Slots[i].ID == id {
			return &d.Slots[i]
		}
	}
	return nil
}
