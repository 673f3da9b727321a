package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"summerlit/internal/content"
	"summerlit/internal/models"
	"summerlit/internal/runner"
	"summerlit/internal/security"
	"summerlit/internal/service"
	"summerlit/internal/session"
)

// ActivityHandler drives the day flow: intros, question pages, answer
// submission and day completion.
type ActivityHandler struct {
	activities *service.ActivityService
	sessions   *session.Store
	csrf       *security.CSRFGenerator
	templates  *template.Template
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activities *service.ActivityService, sessions *session.Store, csrf *security.CSRFGenerator, templates *template.Template) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		sessions:   sessions,
		csrf:       csrf,
		templates:  templates,
	}
}

// Home renders whatever the session's phase calls for.
func (h *ActivityHandler) Home(w http.ResponseWriter, r *http.Request) {
	state := StateFromContext(r.Context())
	days, packs, err := h.activities.Days(r.Context(), state.StudentPrefix)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load activities", err)
		return
	}
	if len(days) == 0 {
		respondWithError(w, http.StatusNotFound, "No activities found for your account", "", nil)
		return
	}

	switch state.Phase {
	case session.PhaseDayIntro:
		h.renderIntro(w, r, state, days, packs)
	case session.PhaseInDay:
		h.renderDay(w, r, state, days, packs)
	case session.PhaseDayComplete:
		h.renderDayComplete(w, r, state, days, packs)
	case session.PhaseAllDaysComplete:
		h.renderAllComplete(w, r, state, days, packs)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// StartDay moves the session from the day intro onto the first page.
func (h *ActivityHandler) StartDay(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}

	runner.StartDay(state)
	state.OpeningAudioPlayed[state.CurrentDay] = true
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitSelect records a single-select answer.
func (h *ActivityHandler) SubmitSelect(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	pack, index, ok := h.parseQuestion(w, r, state)
	if !ok {
		return
	}

	result := runner.SubmitSelect(state, pack, index, r.FormValue("option"))
	if result.Message != "" {
		kind := "error"
		if result.Correct {
			kind = "success"
		}
		state.SetFlash(kind, result.Message)
	}
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitText grades and records a typed answer.
func (h *ActivityHandler) SubmitText(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	pack, index, ok := h.parseQuestion(w, r, state)
	if !ok {
		return
	}

	result := runner.SubmitText(state, pack, index, r.FormValue("answer"))
	if result.Message != "" {
		kind := "warning"
		if result.Recorded {
			kind = "success"
		}
		state.SetFlash(kind, result.Message)
	}
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NextPage advances to the next question page once the current one is
// fully answered.
func (h *ActivityHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	pack, ok := h.currentPack(w, r, state)
	if !ok {
		return
	}

	if !runner.NextPage(state, pack) {
		state.SetFlash("warning", MsgPageIncomplete)
	}
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PrevPage steps back one question page.
func (h *ActivityHandler) PrevPage(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}

	runner.PrevPage(state)
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CompleteDay finishes the current day and persists progress to the
// bucket. A failed save keeps the in-memory state and warns the student.
func (h *ActivityHandler) CompleteDay(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}
	pack, ok := h.currentPack(w, r, state)
	if !ok {
		return
	}

	if !runner.CompleteDay(state, pack) {
		state.SetFlash("warning", MsgPageIncomplete)
		h.saveSession(state)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.activities.SaveProgress(r.Context(), state.StudentPrefix, state.Progress); err != nil {
		log.Printf("Failed to save progress for %s: %v", state.Student, err)
		state.SetFlash("warning", MsgProgressSaveRetry)
	}
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ContinueDay moves from the celebration screen to the next day.
func (h *ActivityHandler) ContinueDay(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}

	days, _, err := h.activities.Days(r.Context(), state.StudentPrefix)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load activities", err)
		return
	}

	runner.ContinueNextDay(state, days)
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TogglePractice flips the handwriting practice checkbox for an activity.
func (h *ActivityHandler) TogglePractice(w http.ResponseWriter, r *http.Request) {
	state, ok := h.parsePost(w, r)
	if !ok {
		return
	}

	activity := r.FormValue("activity")
	if activity == "" {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}
	key := state.CurrentDay + "_" + activity
	state.PracticeDone[key] = r.FormValue("done") == "1"
	h.saveSession(state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ActivityHandler) renderIntro(w http.ResponseWriter, r *http.Request, state *session.State, days []string, packs map[string]*models.DayPack) {
	pack := packs[state.CurrentDay]
	if pack == nil {
		respondWithError(w, http.StatusNotFound, "Day content not found", "", nil)
		return
	}

	opening := ""
	if !state.OpeningAudioPlayed[state.CurrentDay] {
		opening = audioURL(pack.OpeningAudio, state.StudentPrefix, state.CurrentDay)
	}

	data := DayIntroViewData{
		Title:        dayLabel(state.CurrentDay) + " - Summer Literacy",
		Student:      state.Student,
		DayLabel:     dayLabel(state.CurrentDay),
		Theme:        pack.Theme,
		OpeningAudio: opening,
		Sidebar:      h.sidebar(state, days, packs),
		CSRFToken:    h.csrfToken(state),
		Flash:        state.TakeFlash(),
	}
	h.saveSession(state)
	h.render(w, "day_intro.tmpl", data)
}

func (h *ActivityHandler) renderDay(w http.ResponseWriter, r *http.Request, state *session.State, days []string, packs map[string]*models.DayPack) {
	pack := packs[state.CurrentDay]
	if pack == nil {
		respondWithError(w, http.StatusNotFound, "Day content not found", "", nil)
		return
	}

	page := state.QuestionPage
	total := runner.TotalPages(pack)

	data := DayPageViewData{
		Title:        dayLabel(state.CurrentDay) + " - Summer Literacy",
		Student:      state.Student,
		DayLabel:     dayLabel(state.CurrentDay),
		Theme:        pack.Theme,
		PageNumber:   page + 1,
		TotalPages:   total,
		HasPrev:      page > 0,
		IsLastPage:   page == total-1,
		PageAnswered: runner.PageAnswered(state, pack, page),
		Activities:   h.activityViews(state, pack, page),
		Scores:       scoreViews(runner.DayScores(state, pack)),
		DayPercent:   runner.DayPercent(state, pack),
		Sidebar:      h.sidebar(state, days, packs),
		CSRFToken:    h.csrfToken(state),
		Flash:        state.TakeFlash(),
	}
	h.saveSession(state)
	h.render(w, "day_page.tmpl", data)
}

func (h *ActivityHandler) renderDayComplete(w http.ResponseWriter, r *http.Request, state *session.State, days []string, packs map[string]*models.DayPack) {
	pack := packs[state.CurrentDay]
	if pack == nil {
		respondWithError(w, http.StatusNotFound, "Day content not found", "", nil)
		return
	}

	data := DayCompleteViewData{
		Title:      dayLabel(state.CurrentDay) + " Complete - Summer Literacy",
		Student:    state.Student,
		DayLabel:   dayLabel(state.CurrentDay),
		Theme:      pack.Theme,
		Scores:     scoreViews(runner.DayScores(state, pack)),
		DayPercent: runner.DayPercent(state, pack),
		Sidebar:    h.sidebar(state, days, packs),
		CSRFToken:  h.csrfToken(state),
		Flash:      state.TakeFlash(),
	}
	h.saveSession(state)
	h.render(w, "day_complete.tmpl", data)
}

func (h *ActivityHandler) renderAllComplete(w http.ResponseWriter, r *http.Request, state *session.State, days []string, packs map[string]*models.DayPack) {
	closing := ""
	if last := days[len(days)-1]; packs[last] != nil {
		closing = audioURL(packs[last].ClosingAudio, state.StudentPrefix, last)
	}

	data := AllCompleteViewData{
		Title:        "All Done! - Summer Literacy",
		Student:      state.Student,
		ClosingAudio: closing,
		Sidebar:      h.sidebar(state, days, packs),
		CSRFToken:    h.csrfToken(state),
		Flash:        state.TakeFlash(),
	}
	h.saveSession(state)
	h.render(w, "all_complete.tmpl", data)
}

// activityViews groups the current page's questions by the activity they
// belong to, resolving audio references as it goes.
func (h *ActivityHandler) activityViews(state *session.State, pack *models.DayPack, page int) []ActivityView {
	prefix := state.StudentPrefix
	day := state.CurrentDay

	var views []ActivityView
	byNumber := make(map[int]int)

	for _, ref := range runner.PageQuestions(pack, page) {
		idx, ok := byNumber[ref.Activity.ActivityNumber]
		if !ok {
			idx = len(views)
			byNumber[ref.Activity.ActivityNumber] = idx
			views = append(views, activityView(state, ref.Activity, prefix, day))
		}

		answer, answered := state.Answers[runner.AnswerKey(day, ref.GlobalIndex)]
		qv := QuestionView{
			GlobalIndex: ref.GlobalIndex,
			Prompt:      ref.Question.Prompt,
			PromptAudio: audioURL(ref.Question.PromptAudio, prefix, day),
			Answer:      answer,
			Answered:    answered,
		}
		if answered {
			qv.FeedbackAudio = audioURL(ref.Question.FeedbackAudio, prefix, day)
		}
		if ref.Question.SingleSelect != nil {
			qv.IsSelect = true
			for _, opt := range ref.Question.SingleSelect.Options {
				qv.Options = append(qv.Options, OptionView{
					Text:  opt.Text,
					Audio: audioURL(opt.Audio, prefix, day),
				})
			}
		}
		if ref.Question.TextInput != nil {
			qv.IsDictation = ref.Question.TextInput.Kind == models.TextInputDictation
			qv.DictationAudio = audioURL(ref.Question.TextInput.DictationAudio, prefix, day)
		}
		views[idx].Questions = append(views[idx].Questions, qv)
	}

	// The paragraph reveal appears once every question of the activity is
	// answered, regardless of which page the answers were given on.
	for i := range views {
		views[i].FinalDisplay = h.finalDisplay(state, pack, views[i].ActivityNumber, prefix, day)
	}
	return views
}

func activityView(state *session.State, activity *models.Activity, prefix, day string) ActivityView {
	return ActivityView{
		ActivityNumber:    activity.ActivityNumber,
		Component:         activity.Component,
		SkillTarget:       activity.SkillTarget,
		TimeAllocation:    activity.TimeAllocation,
		TeachingAudio:     audioURL(activity.TeachingAudio, prefix, day),
		MultisensoryAudio: audioURL(activity.MultisensoryAudio, prefix, day),
		TutorIntroAudio:   audioURL(activity.TutorIntroAudio, prefix, day),
		StoryDisplay:      activity.StoryDisplay,
		StoryText:         activity.StoryText,
		StoryAudio:        audioURL(activity.StoryAudio, prefix, day),
		PracticeDone:      state.PracticeDone[day+"_"+strconv.Itoa(activity.ActivityNumber)],
	}
}

func (h *ActivityHandler) finalDisplay(state *session.State, pack *models.DayPack, activityNumber int, prefix, day string) *FinalDisplayView {
	for _, ref := range pack.FlattenQuestions() {
		if ref.Activity.ActivityNumber != activityNumber {
			continue
		}
		if ref.Activity.FinalDisplay == nil {
			return nil
		}
		if _, ok := state.Answers[runner.AnswerKey(day, ref.GlobalIndex)]; !ok {
			return nil
		}
	}

	for ai := range pack.Activities {
		activity := &pack.Activities[ai]
		if activity.ActivityNumber != activityNumber || activity.FinalDisplay == nil {
			continue
		}
		return &FinalDisplayView{
			Paragraph: activity.FinalDisplay.CompleteParagraph,
			Audio:     audioURL(activity.FinalDisplay.Audio, prefix, day),
		}
	}
	return nil
}

func (h *ActivityHandler) sidebar(state *session.State, days []string, packs map[string]*models.DayPack) []DayStatusView {
	history := runner.HistoricalScores(state, days, packs)

	views := make([]DayStatusView, 0, len(days))
	for _, day := range days {
		view := DayStatusView{
			DayID:     day,
			Label:     dayLabel(day),
			Completed: state.CompletedDays[day],
			Current:   day == state.CurrentDay,
		}
		if pack := packs[day]; pack != nil {
			view.Theme = pack.Theme
		}
		if percent, ok := history[day]; ok {
			view.Percent = percent
			view.HasPercent = true
		}
		views = append(views, view)
	}
	return views
}

// parsePost parses the form and checks the CSRF token, returning the
// session state on success.
func (h *ActivityHandler) parsePost(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state := StateFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return nil, false
	}
	if !h.csrf.Valid(state.ID, r.FormValue(security.CSRFFieldName)) {
		http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		return nil, false
	}
	return state, true
}

func (h *ActivityHandler) parseQuestion(w http.ResponseWriter, r *http.Request, state *session.State) (*models.DayPack, int, bool) {
	pack, ok := h.currentPack(w, r, state)
	if !ok {
		return nil, 0, false
	}
	index, err := strconv.Atoi(r.FormValue("question"))
	if err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return nil, 0, false
	}
	return pack, index, true
}

func (h *ActivityHandler) currentPack(w http.ResponseWriter, r *http.Request, state *session.State) (*models.DayPack, bool) {
	_, packs, err := h.activities.Days(r.Context(), state.StudentPrefix)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load activities", err)
		return nil, false
	}
	pack := packs[state.CurrentDay]
	if pack == nil {
		respondWithError(w, http.StatusNotFound, "Day content not found", "", nil)
		return nil, false
	}
	return pack, true
}

func (h *ActivityHandler) saveSession(state *session.State) {
	if err := h.sessions.Save(state); err != nil {
		log.Printf("Failed to save session %s: %v", state.ID, err)
	}
}

func (h *ActivityHandler) csrfToken(state *session.State) string {
	token, err := h.csrf.Token(state.ID)
	if err != nil {
		log.Printf("Failed to generate CSRF token: %v", err)
		return ""
	}
	return token
}

func (h *ActivityHandler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// dayLabel turns "day7" into "Day 7".
func dayLabel(dayID string) string {
	n := strings.TrimPrefix(dayID, "day")
	return "Day " + n
}

func audioURL(audio, studentPrefix, dayID string) string {
	key := content.ResolveAudioPath(audio, studentPrefix, dayID)
	if key == "" {
		return ""
	}
	return "/audio/" + key
}

func scoreViews(scores []runner.ActivityScore) []ScoreView {
	var views []ScoreView
	for _, s := range scores {
		views = append(views, ScoreView{
			ActivityNumber: s.ActivityNumber,
			Component:      s.Component,
			Correct:        s.Correct,
			Total:          s.Total,
			Percent:        s.Percent(),
		})
	}
	return views
}
