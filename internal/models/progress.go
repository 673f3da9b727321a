package models

import "time"

// ProgressTimeFormat is the timestamp layout stored in progress records.
const ProgressTimeFormat = "2006-01-02 15:04:05"

// DayProgress is the captured state of one day for a student.
type DayProgress struct {
	Answers     map[string]string `json:"answers"`
	Completed   bool              `json:"completed"`
	LastUpdated string            `json:"last_updated"`
}

// ProgressRecord maps day ids to their captured progress. It is owned by a
// single student and replaced in full on every save.
type ProgressRecord map[string]*DayProgress

// Day returns the progress entry for a day, creating it if absent.
func (p ProgressRecord) Day(dayID string) *DayProgress {
	day, ok := p[dayID]
	if !ok {
		day = &DayProgress{Answers: make(map[string]string)}
		p[dayID] = day
	}
	if day.Answers == nil {
		day.Answers = make(map[string]string)
	}
	return day
}

// RecordAnswers merges answers into a day's entry and refreshes its
// timestamp. Marking a day completed is sticky: a completed day never
// reverts to incomplete.
func (p ProgressRecord) RecordAnswers(dayID string, answers map[string]string, completed bool) {
	if dayID == "" {
		return
	}
	day := p.Day(dayID)
	for key, value := range answers {
		day.Answers[key] = value
	}
	day.LastUpdated = time.Now().Format(ProgressTimeFormat)
	if completed {
		day.Completed = true
	}
}

// CompletedDays returns the set of day ids marked completed.
func (p ProgressRecord) CompletedDays() map[string]bool {
	completed := make(map[string]bool)
	for dayID, day := range p {
		if day != nil && day.Completed {
			completed[dayID] = true
		}
	}
	return completed
}

// AllAnswers flattens every stored answer across days into one map keyed by
// the answer key.
func (p ProgressRecord) AllAnswers() map[string]string {
	answers := make(map[string]string)
	for _, day := range p {
		if day == nil {
			continue
		}
		for key, value := range day.Answers {
			answers[key] = value
		}
	}
	return answers
}
