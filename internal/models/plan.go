package models

import "time"

const (
	ResultUndefined = ""
	ResultSuccess   = "success"
	ResultFail      = "fail"
)

// Plan is one athlete's instantiation of a program: a validated config plus
// the outcome log accumulated against it.
type Plan struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Config is the typed record produced by the config validator. Weight values
// are stored unrounded; rounding is applied per-use because different slots
// referencing the same key may round to different increments.
type Config struct {
	Values  map[string]float64 `json:"values" toml:"values"`
	Choices map[string]string  `json:"choices" toml:"choices"`
}

func (c Config) Clone() Config {
	out := Config{
		Values:  make(map[string]float64, len(c.Values)),
		Choices: make(map[string]string, len(c.Choices)),
	}
	for k, v := range c.Values {
		out.Values[k] = v
	}
	for k, v := range c.Choices {
		out.Choices[k] = v
	}
	return out
}

// Outcome is one entry of the append-only result log. An absent outcome means
// "not yet attempted", which is distinct from a failed one.
type Outcome struct {
	WorkoutIndex int       `json:"workout_index" toml:"workout_index"`
	SlotID       string    `json:"slot_id" toml:"slot_id"`
	Result       string    `json:"result" toml:"result"`
	AmrapReps    int       `json:"amrap_reps,omitempty" toml:"amrap_reps,omitempty"`
	RPE          *float64  `json:"rpe,omitempty" toml:"rpe,omitempty"`
	Note         string    `json:"note,omitempty" toml:"note,omitempty"`
	LoggedAt     time.Time `json:"logged_at" toml:"logged_at"`
}

// UndoEntry records what an outcome overwrote. Previous == nil means the slot
// had not been logged before.
type UndoEntry struct {
	WorkoutIndex int      `json:"workout_index" toml:"workout_index"`
	SlotID       string   `json:"slot_id" toml:"slot_id"`
	Previous     *Outcome `json:"previous,omitempty" toml:"previous,omitempty"`
}

// WorkoutRow is one fully materialized workout of the replayed schedule.
type WorkoutRow struct {
	Index   int       `json:"index"`
	DayName string    `json:"day_name"`
	Slots   []SlotRow `json:"slots"`
}

type SlotRow struct {
	SlotID   string  `json:"slot_id"`
	Exercise string  `json:"exercise"`
	Tier     string  `json:"tier,omitempty"`
	Role     string  `json:"role"`
	Weight   float64 `json:"weight"`
	Stage    int     `json:"stage"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	IsAmrap  bool    `json:"is_amrap,omitempty"`
	RepsMax  int     `json:"reps_max,omitempty"`

	Result    string   `json:"result,omitempty"`
	AmrapReps int      `json:"amrap_reps,omitempty"`
	RPE       *float64 `json:"rpe,omitempty"`

	IsChanged bool `json:"is_changed,omitempty"`
	IsDeload  bool `json:"is_deload,omitempty"`
	IsGpp     bool `json:"is_gpp,omitempty"`

	// Definition/config mismatch for this slot; the rest of the schedule
	// still renders.
	Unresolved bool   `json:"unresolved,omitempty"`
	Problem    string `json:"problem,omitempty"`

	Prescriptions []PrescriptionRow `json:"prescriptions,omitempty"`
}

// PrescriptionRow is one rung of a materialized prescription ladder.
type PrescriptionRow struct {
	Percent float64 `json:"percent"`
	Weight  float64 `json:"weight"`
	Reps    int     `json:"reps"`
	Sets    int     `json:"sets"`
	Warmup  bool    `json:"warmup,omitempty"`
}

// Snapshot is the compact previous-replay baseline used to derive the
// is-changed flag across CLI invocations.
type Snapshot struct {
	PlanID string        `toml:"plan_id"`
	Rows   []SnapshotRow `toml:"row"`
}

type SnapshotRow struct {
	WorkoutIndex int     `toml:"workout_index"`
	SlotID       string  `toml:"slot_id"`
	Weight       float64 `toml:"weight"`
}
