// Package wizard implements the step-by-step private-message dialog used to
// create and edit events. A Session is a pure state machine: it never
// performs I/O, it only consumes user messages and exposes the next prompt.
package wizard

// Step is a position of the wizard cursor.
type Step int

const (
	StepChannelSelect Step = iota + 1
	StepChannelPick
	StepTitle
	StepDescription
	StepMaxAttendees
	StepStartTime
	StepDuration
	StepAdvancedMenu
	StepMentionRoles
	StepImage
	StepColor
	StepAllowedRoles
	StepMultiResponse
	StepAssignRole
	StepRegistrationClose
	StepFinalize
	StepCompleted
	StepCancelled
	StepTimedOut
)

var stepNames = map[Step]string{
	StepChannelSelect:     "channel_select",
	StepChannelPick:       "channel_pick",
	StepTitle:             "title",
	StepDescription:       "details",
	StepMaxAttendees:      "max_attendees",
	StepStartTime:         "start_time",
	StepDuration:          "duration",
	StepAdvancedMenu:      "advanced_menu",
	StepMentionRoles:      "mention_roles",
	StepImage:             "image",
	StepColor:             "color",
	StepAllowedRoles:      "allowed_roles",
	StepMultiResponse:     "multi_response",
	StepAssignRole:        "assign_role",
	StepRegistrationClose: "registration_close",
	StepFinalize:          "finalize",
	StepCompleted:         "completed",
	StepCancelled:         "cancelled",
	StepTimedOut:          "timed_out",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether no further input is accepted.
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepCancelled || s == StepTimedOut
}

// Mode selects the creation or edit vocabulary.
type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Advanced menu entries, 1-based as displayed.
const (
	menuMentionRoles = iota + 1
	menuImage
	menuColor
	menuAllowedRoles
	menuMultiResponse
	menuAssignRole
	menuRegistrationClose
	menuFinish
)

// Sentinels recognised in user input (case-insensitive).
var (
	cancelTokens = []string{"cancelar", "cancel"}
	skipTokens   = []string{"skip", "saltar"}
	noneTokens   = []string{"none", "ninguno"}
	nowTokens    = []string{"ahora", "now"}
	yesTokens    = []string{"si", "sí", "s", "yes", "y"}
	noTokens     = []string{"no", "n"}
)

// editFlow is the step order of the edit dialog.
var editFlow = []Step{
	StepTitle,
	StepDescription,
	StepChannelPick,
	StepStartTime,
	StepDuration,
	StepMaxAttendees,
	StepFinalize,
}

// createFlow is the linear part of the creation dialog; StepChannelPick is
// only entered from StepChannelSelect.
var createFlow = []Step{
	StepChannelSelect,
	StepTitle,
	StepDescription,
	StepMaxAttendees,
	StepStartTime,
	StepDuration,
	StepAdvancedMenu,
}
