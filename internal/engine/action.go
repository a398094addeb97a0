package engine

import "fmt"

// ActionKind is the closed set of transition actions. Program files author
// actions as tagged records; compileAction turns them into this enum so the
// interpreter can match exhaustively instead of string-dispatching.
type ActionKind int

const (
	ActionNoChange ActionKind = iota
	ActionAdvanceStage
	ActionAddWeight
	ActionAddWeightResetStage
	ActionUpdateTM
	ActionDeloadPercent
)

var actionKinds = map[string]ActionKind{
	"no_change":              ActionNoChange,
	"advance_stage":          ActionAdvanceStage,
	"add_weight":             ActionAddWeight,
	"add_weight_reset_stage": ActionAddWeightResetStage,
	"update_tm":              ActionUpdateTM,
	"deload_percent":         ActionDeloadPercent,
}

func (k ActionKind) String() string {
	for name, kind := range actionKinds {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// ParseActionKind resolves a raw action tag. Unknown tags are a definition
// error, never a silent default.
func ParseActionKind(s string) (ActionKind, error) {
	kind, ok := actionKinds[s]
	if !ok {
		return 0, fmt.Errorf("unknown action type %q", s)
	}
	return kind, nil
}
