package runner

import (
	"summerlit/internal/grading"
	"summerlit/internal/models"
	"summerlit/internal/session"
)

// ActivityScore is the correct/total tally for one activity of a day.
type ActivityScore struct {
	ActivityNumber int
	Component      string
	Correct        int
	Total          int
}

// Percent returns the activity's score as a percentage.
func (s ActivityScore) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// DayScores tallies per-activity correctness for a day from the answers
// recorded in the session. Single-select answers count when they match the
// correct option; text answers count when the stored answer still grades
// as accepted or is the escape phrase.
func DayScores(state *session.State, pack *models.DayPack) []ActivityScore {
	var scores []ActivityScore
	byActivity := make(map[int]int) // activity number -> index in scores

	for _, ref := range pack.FlattenQuestions() {
		idx, ok := byActivity[ref.Activity.ActivityNumber]
		if !ok {
			idx = len(scores)
			byActivity[ref.Activity.ActivityNumber] = idx
			scores = append(scores, ActivityScore{
				ActivityNumber: ref.Activity.ActivityNumber,
				Component:      ref.Activity.Component,
			})
		}

		scores[idx].Total++
		answer := state.Answers[AnswerKey(pack.DayID, ref.GlobalIndex)]
		if answer == "" {
			continue
		}
		if questionCorrect(ref.Question, answer) {
			scores[idx].Correct++
		}
	}

	return scores
}

// DayPercent returns the overall percentage for a day.
func DayPercent(state *session.State, pack *models.DayPack) float64 {
	correct, total := 0, 0
	for _, score := range DayScores(state, pack) {
		correct += score.Correct
		total += score.Total
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// HistoricalScores returns the percentage per completed day, keyed by day id.
func HistoricalScores(state *session.State, days []string, packs map[string]*models.DayPack) map[string]float64 {
	history := make(map[string]float64)
	for _, day := range days {
		if !state.CompletedDays[day] {
			continue
		}
		pack, ok := packs[day]
		if !ok {
			continue
		}
		history[day] = DayPercent(state, pack)
	}
	return history
}

func questionCorrect(q *models.Question, answer string) bool {
	switch {
	case q.SingleSelect != nil:
		return answer == q.SingleSelect.CorrectAnswer
	case q.TextInput != nil:
		if grading.IsEscapePhrase(answer) {
			return true
		}
		return grading.Grade(answer, q.TextInput.Reference).Accepted
	default:
		return false
	}
}
