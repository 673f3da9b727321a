package runner

import (
	"testing"

	"summerlit/internal/models"
	"summerlit/internal/session"
)

// threeQuestionPack builds a day with one single-select and two dictation
// questions across two activities, so paging splits at page size 2.
func threeQuestionPack(dayID string) *models.DayPack {
	return &models.DayPack{
		DayID: dayID,
		Theme: "Test Day",
		Activities: []models.Activity{
			{
				ActivityNumber: 1,
				Component:      "Phonics",
				Questions: []models.Question{
					{
						Prompt: "Pick the word that rhymes with cat",
						SingleSelect: &models.SingleSelect{
							Options:       []models.Option{{Text: "hat"}, {Text: "dog"}},
							CorrectAnswer: "hat",
						},
					},
					{
						Prompt:    "Write the sentence you hear",
						TextInput: &models.TextInput{Kind: models.TextInputDictation, Reference: "the cat sat"},
					},
				},
			},
			{
				ActivityNumber: 2,
				Component:      "Dictation",
				Questions: []models.Question{
					{
						Prompt:    "Write another sentence",
						TextInput: &models.TextInput{Kind: models.TextInputDictation, Reference: "the dog ran"},
					},
				},
			},
		},
	}
}

func loggedInState(days []string) *session.State {
	state := session.New()
	Login(state, "Alice", "alice", "GroupA", "Summer_Activities/GroupA/alice",
		make(models.ProgressRecord), days)
	return state
}

func TestPaging(t *testing.T) {
	pack := threeQuestionPack("day1")

	if got := TotalPages(pack); got != 2 {
		t.Errorf("TotalPages = %d, want 2", got)
	}
	if got := len(PageQuestions(pack, 0)); got != 2 {
		t.Errorf("page 0 has %d questions, want 2", got)
	}
	if got := len(PageQuestions(pack, 1)); got != 1 {
		t.Errorf("page 1 has %d questions, want 1", got)
	}
	if got := PageQuestions(pack, 5); got != nil {
		t.Errorf("out-of-range page returned %v", got)
	}
}

func TestPageAdvanceGate(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1"})
	StartDay(state)

	// Nothing answered: no advance.
	if NextPage(state, pack) {
		t.Error("NextPage must be gated on a fully answered page")
	}

	// One of two answered: still gated.
	SubmitSelect(state, pack, 0, "hat")
	if NextPage(state, pack) {
		t.Error("NextPage must stay gated with one unanswered question")
	}

	// Rejected text answer does not unlock the page.
	if result := SubmitText(state, pack, 1, "zzz qqq"); result.Recorded {
		t.Error("low-similarity answer must not be recorded")
	}
	if NextPage(state, pack) {
		t.Error("rejected answer must not unlock the page")
	}

	// Accepted answer unlocks the advance.
	if result := SubmitText(state, pack, 1, "the cat sat"); !result.Recorded {
		t.Errorf("exact answer rejected: %+v", result)
	}
	if !NextPage(state, pack) {
		t.Error("NextPage should advance once the page is answered")
	}
	if state.QuestionPage != 1 {
		t.Errorf("QuestionPage = %d, want 1", state.QuestionPage)
	}
}

func TestPrevPage(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1"})
	StartDay(state)

	if PrevPage(state) {
		t.Error("PrevPage on page 0 must be a no-op")
	}

	SubmitSelect(state, pack, 0, "hat")
	SubmitText(state, pack, 1, "the cat sat")
	NextPage(state, pack)

	if !PrevPage(state) || state.QuestionPage != 0 {
		t.Errorf("PrevPage failed, page = %d", state.QuestionPage)
	}
}

func TestReselectIsNoOp(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1"})
	StartDay(state)

	SubmitSelect(state, pack, 0, "dog")
	result := SubmitSelect(state, pack, 0, "dog")
	if !result.Recorded || result.Correct {
		t.Errorf("re-select result: %+v", result)
	}
	if state.Answers[AnswerKey("day1", 0)] != "dog" {
		t.Error("stored answer changed on re-select")
	}
}

func TestCompleteDayAdvancesToNextDay(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1", "day2"})
	StartDay(state)

	SubmitSelect(state, pack, 0, "hat")
	SubmitText(state, pack, 1, "the cat sat")

	// Not on the last page yet.
	if CompleteDay(state, pack) {
		t.Error("CompleteDay before the last page must be refused")
	}

	NextPage(state, pack)
	SubmitText(state, pack, 2, "the dog ran")

	if !CompleteDay(state, pack) {
		t.Fatal("CompleteDay refused on a fully answered last page")
	}
	if !state.CompletedDays["day1"] {
		t.Error("day1 not marked completed")
	}
	if !state.Progress["day1"].Completed {
		t.Error("day1 not completed in progress record")
	}
	if state.Phase != session.PhaseDayComplete {
		t.Errorf("phase = %s, want day_complete", state.Phase)
	}

	if !ContinueNextDay(state, []string{"day1", "day2"}) {
		t.Fatal("ContinueNextDay refused after day completion")
	}
	if state.CurrentDay != "day2" || state.Phase != session.PhaseDayIntro {
		t.Errorf("expected day2 intro, got day=%s phase=%s", state.CurrentDay, state.Phase)
	}
	if state.QuestionPage != 0 {
		t.Errorf("QuestionPage = %d, want 0", state.QuestionPage)
	}
}

func TestCompleteLastDayReachesTerminalState(t *testing.T) {
	days := []string{"day1"}
	pack := threeQuestionPack("day1")
	state := loggedInState(days)
	StartDay(state)

	SubmitSelect(state, pack, 0, "hat")
	SubmitText(state, pack, 1, "the cat sat")
	NextPage(state, pack)
	SubmitText(state, pack, 2, "the dog ran")

	if !CompleteDay(state, pack) {
		t.Fatal("CompleteDay refused")
	}
	if !ContinueNextDay(state, days) {
		t.Fatal("ContinueNextDay refused")
	}
	if state.Phase != session.PhaseAllDaysComplete {
		t.Errorf("phase = %s, want all_days_complete", state.Phase)
	}
	for _, day := range days {
		if !state.Progress[day].Completed {
			t.Errorf("%s not completed in progress record", day)
		}
	}
}

func TestLoginResume(t *testing.T) {
	record := make(models.ProgressRecord)
	record.RecordAnswers("day1", map[string]string{AnswerKey("day1", 0): "hat"}, true)

	state := session.New()
	Login(state, "Alice", "alice", "GroupA", "prefix", record, []string{"day1", "day2"})

	if state.CurrentDay != "day2" {
		t.Errorf("CurrentDay = %q, want day2 (first non-completed)", state.CurrentDay)
	}
	if !state.CompletedDays["day1"] {
		t.Error("day1 missing from completed days")
	}
	if state.Answers[AnswerKey("day1", 0)] != "hat" {
		t.Error("answers not restored from progress record")
	}
	if state.Phase != session.PhaseDayIntro {
		t.Errorf("phase = %s, want day_intro", state.Phase)
	}
}

func TestLoginAllDaysCompleteSelectsLastDay(t *testing.T) {
	record := make(models.ProgressRecord)
	record.RecordAnswers("day1", nil, true)
	record.RecordAnswers("day2", nil, true)

	state := session.New()
	Login(state, "Alice", "alice", "GroupA", "prefix", record, []string{"day1", "day2"})

	if state.CurrentDay != "day2" {
		t.Errorf("CurrentDay = %q, want day2 (last day)", state.CurrentDay)
	}
}

func TestLogoutKeepsProgress(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1"})
	StartDay(state)
	SubmitSelect(state, pack, 0, "hat")

	Logout(state)

	if state.Authenticated || state.Phase != session.PhaseLoggedOut {
		t.Error("logout must clear authentication")
	}
	if state.Progress["day1"].Answers[AnswerKey("day1", 0)] != "hat" {
		t.Error("logout must not clear the progress record")
	}
}

func TestDayScores(t *testing.T) {
	pack := threeQuestionPack("day1")
	state := loggedInState([]string{"day1"})
	StartDay(state)

	SubmitSelect(state, pack, 0, "dog") // wrong option, still recorded
	SubmitText(state, pack, 1, "the cat sat")

	scores := DayScores(state, pack)
	if len(scores) != 2 {
		t.Fatalf("got %d activity scores, want 2", len(scores))
	}
	if scores[0].Correct != 1 || scores[0].Total != 2 {
		t.Errorf("activity 1 score = %d/%d, want 1/2", scores[0].Correct, scores[0].Total)
	}
	if scores[1].Correct != 0 || scores[1].Total != 1 {
		t.Errorf("activity 2 score = %d/%d, want 0/1", scores[1].Correct, scores[1].Total)
	}
}
