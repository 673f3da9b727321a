package runner

import (
	"fmt"

	"summerlit/internal/grading"
	"summerlit/internal/models"
	"summerlit/internal/session"
)

// QuestionsPerPage is the fixed page size: questions are flattened across
// the day's activities in source order and grouped two per page.
const QuestionsPerPage = 2

// AnswerKey builds the stable key an answer is stored under, in both the
// session state and the persisted progress record.
func AnswerKey(dayID string, globalIndex int) string {
	return fmt.Sprintf("answer_%s_%d", dayID, globalIndex)
}

// TotalPages returns the number of pages for a day.
func TotalPages(pack *models.DayPack) int {
	questions := len(pack.FlattenQuestions())
	return (questions + QuestionsPerPage - 1) / QuestionsPerPage
}

// PageQuestions returns the question refs on one page.
func PageQuestions(pack *models.DayPack, page int) []models.QuestionRef {
	refs := pack.FlattenQuestions()
	start := page * QuestionsPerPage
	if start >= len(refs) {
		return nil
	}
	end := start + QuestionsPerPage
	if end > len(refs) {
		end = len(refs)
	}
	return refs[start:end]
}

// PageAnswered reports whether every question on a page has a recorded
// answer. Only accepted answers are ever recorded, so presence implies the
// grading gate was passed.
func PageAnswered(state *session.State, pack *models.DayPack, page int) bool {
	refs := PageQuestions(pack, page)
	if len(refs) == 0 {
		return false
	}
	for _, ref := range refs {
		if state.Answers[AnswerKey(pack.DayID, ref.GlobalIndex)] == "" {
			return false
		}
	}
	return true
}

// SelectCurrentDay picks the first day not yet completed, or the last day
// when everything is done.
func SelectCurrentDay(days []string, completed map[string]bool) string {
	if len(days) == 0 {
		return ""
	}
	for _, day := range days {
		if !completed[day] {
			return day
		}
	}
	return days[len(days)-1]
}

// Login transitions a fresh state into an authenticated session and
// restores persisted progress: completed days, stored answers, and the
// current day to resume at.
func Login(state *session.State, student, originalStudent, group, studentPrefix string, record models.ProgressRecord, days []string) {
	state.Authenticated = true
	state.Student = student
	state.OriginalStudent = originalStudent
	state.Group = group
	state.StudentPrefix = studentPrefix
	state.Progress = record
	state.CompletedDays = record.CompletedDays()
	state.Answers = record.AllAnswers()
	state.CurrentDay = SelectCurrentDay(days, state.CompletedDays)
	state.QuestionPage = 0
	state.Phase = session.PhaseDayIntro
}

// StartDay begins the current day's activities; an explicit user action so
// audio playback stays behind a gesture.
func StartDay(state *session.State) {
	if state.Phase != session.PhaseDayIntro || state.CurrentDay == "" {
		return
	}
	state.Phase = session.PhaseInDay
	state.QuestionPage = 0
}

// SubmitResult is the outcome of an answer submission.
type SubmitResult struct {
	Recorded bool
	Correct  bool // single-select: matched the correct answer
	Message  string
}

// SubmitSelect records a single-select answer. Any selection is a recorded
// answer; re-selecting the stored option is a no-op re-confirm and there is
// no deselect.
func SubmitSelect(state *session.State, pack *models.DayPack, globalIndex int, selected string) SubmitResult {
	ref, ok := questionAt(pack, globalIndex)
	if !ok || ref.Question.SingleSelect == nil {
		return SubmitResult{}
	}

	key := AnswerKey(pack.DayID, globalIndex)
	state.Answers[key] = selected
	state.Progress.RecordAnswers(pack.DayID, map[string]string{key: selected}, false)

	correct := selected == ref.Question.SingleSelect.CorrectAnswer
	message := "❌ Try again!"
	if correct {
		message = "✅ Correct! Well done!"
	}
	return SubmitResult{Recorded: true, Correct: correct, Message: message}
}

// SubmitText grades a free-text answer and records it only when accepted.
func SubmitText(state *session.State, pack *models.DayPack, globalIndex int, answer string) SubmitResult {
	ref, ok := questionAt(pack, globalIndex)
	if !ok || ref.Question.TextInput == nil {
		return SubmitResult{}
	}

	result := grading.Grade(answer, ref.Question.TextInput.Reference)
	if !result.Accepted {
		return SubmitResult{Recorded: false, Message: result.Message}
	}

	key := AnswerKey(pack.DayID, globalIndex)
	state.Answers[key] = answer
	state.Progress.RecordAnswers(pack.DayID, map[string]string{key: answer}, false)
	return SubmitResult{Recorded: true, Correct: true, Message: result.Message}
}

// NextPage advances within the day, gated on the current page being fully
// answered.
func NextPage(state *session.State, pack *models.DayPack) bool {
	if state.Phase != session.PhaseInDay {
		return false
	}
	if !PageAnswered(state, pack, state.QuestionPage) {
		return false
	}
	if state.QuestionPage+1 >= TotalPages(pack) {
		return false
	}
	state.QuestionPage++
	return true
}

// PrevPage steps back within the day; no gate.
func PrevPage(state *session.State) bool {
	if state.Phase != session.PhaseInDay || state.QuestionPage == 0 {
		return false
	}
	state.QuestionPage--
	return true
}

// CompleteDay finishes the current day once its last page is fully
// answered: the day is marked completed (sticky) and the session moves to
// the day's celebration screen.
func CompleteDay(state *session.State, pack *models.DayPack) bool {
	if state.Phase != session.PhaseInDay {
		return false
	}
	lastPage := TotalPages(pack) - 1
	if state.QuestionPage != lastPage || !PageAnswered(state, pack, lastPage) {
		return false
	}

	state.CompletedDays[pack.DayID] = true
	state.Progress.RecordAnswers(pack.DayID, nil, true)
	state.Phase = session.PhaseDayComplete
	return true
}

// ContinueNextDay leaves the celebration screen for the next day's intro,
// or the terminal state when no days remain.
func ContinueNextDay(state *session.State, days []string) bool {
	if state.Phase != session.PhaseDayComplete {
		return false
	}

	next := nextDay(days, state.CurrentDay)
	if next == "" {
		state.Phase = session.PhaseAllDaysComplete
		return true
	}
	state.CurrentDay = next
	state.QuestionPage = 0
	state.PracticeDone = make(map[string]bool)
	state.Phase = session.PhaseDayIntro
	return true
}

// Logout persists nothing itself; it resets the session-only flags while
// leaving the progress record untouched for the shell to save.
func Logout(state *session.State) {
	state.Authenticated = false
	state.Phase = session.PhaseLoggedOut
	state.QuestionPage = 0
	state.OpeningAudioPlayed = make(map[string]bool)
}

// questionAt finds the question ref with the given global index.
func questionAt(pack *models.DayPack, globalIndex int) (models.QuestionRef, bool) {
	refs := pack.FlattenQuestions()
	if globalIndex < 0 || globalIndex >= len(refs) {
		return models.QuestionRef{}, false
	}
	return refs[globalIndex], true
}

// nextDay returns the day after current in order, or "".
func nextDay(days []string, current string) string {
	for i, day := range days {
		if day == current && i+1 < len(days) {
			return days[i+1]
		}
	}
	return ""
}
