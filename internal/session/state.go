package session

import "summerlit/internal/models"

// Phase names the position of a session in the day flow.
type Phase string

const (
	PhaseLoggedOut       Phase = "logged_out"
	PhaseDayIntro        Phase = "day_intro"
	PhaseInDay           Phase = "in_day"
	PhaseDayComplete     Phase = "day_complete"
	PhaseAllDaysComplete Phase = "all_days_complete"
)

// Flash is a one-shot inline message shown on the next render.
type Flash struct {
	Kind string `json:"kind"` // "success", "warning", "error"
	Text string `json:"text"`
}

// State is everything the server remembers about one student session
// between interactions. It is serialized into the session store after each
// handled request and rehydrated on the next.
type State struct {
	ID string `json:"id"`

	Authenticated   bool   `json:"authenticated"`
	Student         string `json:"student"`          // display name
	OriginalStudent string `json:"original_student"` // name as stored in the bucket
	Group           string `json:"group"`
	StudentPrefix   string `json:"student_prefix"`

	Phase        Phase  `json:"phase"`
	CurrentDay   string `json:"current_day"`
	QuestionPage int    `json:"question_page"`

	CompletedDays map[string]bool   `json:"completed_days"`
	Answers       map[string]string `json:"answers"`
	PracticeDone  map[string]bool   `json:"practice_done"`

	// Transient audio markers, cleared on logout.
	OpeningAudioPlayed map[string]bool `json:"opening_audio_played"`

	Progress models.ProgressRecord `json:"progress"`

	Flash *Flash `json:"flash,omitempty"`
}

// New returns a fresh logged-out state.
func New() *State {
	return &State{
		Phase:              PhaseLoggedOut,
		CompletedDays:      make(map[string]bool),
		Answers:            make(map[string]string),
		PracticeDone:       make(map[string]bool),
		OpeningAudioPlayed: make(map[string]bool),
		Progress:           make(models.ProgressRecord),
	}
}

// SetFlash queues a one-shot message.
func (s *State) SetFlash(kind, text string) {
	s.Flash = &Flash{Kind: kind, Text: text}
}

// TakeFlash returns and clears the queued message.
func (s *State) TakeFlash() *Flash {
	f := s.Flash
	s.Flash = nil
	return f
}
