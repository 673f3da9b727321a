package handlers

import (
	"summerlit/internal/service"
	"summerlit/internal/session"
)

type LoginViewData struct {
	Title    string
	Students []service.RosterEntry
	Student  string
	Error    string
}

// DayStatusView is one row of the progress sidebar.
type DayStatusView struct {
	DayID      string
	Label      string
	Theme      string
	Completed  bool
	Current    bool
	Percent    float64
	HasPercent bool
}

type DayIntroViewData struct {
	Title        string
	Student      string
	DayLabel     string
	Theme        string
	OpeningAudio string
	Sidebar      []DayStatusView
	CSRFToken    string
	Flash        *session.Flash
}

type OptionView struct {
	Text  string
	Audio string
}

type QuestionView struct {
	GlobalIndex    int
	Prompt         string
	PromptAudio    string
	IsSelect       bool
	Options        []OptionView
	IsDictation    bool
	DictationAudio string
	FeedbackAudio  string
	Answer         string
	Answered       bool
}

type FinalDisplayView struct {
	Paragraph string
	Audio     string
}

// ActivityView carries one activity's questions for the current page only.
type ActivityView struct {
	ActivityNumber    int
	Component         string
	SkillTarget       string
	TimeAllocation    string
	TeachingAudio     string
	MultisensoryAudio string
	TutorIntroAudio   string
	StoryDisplay      bool
	StoryText         string
	StoryAudio        string
	Questions         []QuestionView
	FinalDisplay      *FinalDisplayView
	PracticeDone      bool
}

type ScoreView struct {
	ActivityNumber int
	Component      string
	Correct        int
	Total          int
	Percent        float64
}

type DayPageViewData struct {
	Title        string
	Student      string
	DayLabel     string
	Theme        string
	PageNumber   int
	TotalPages   int
	HasPrev      bool
	IsLastPage   bool
	PageAnswered bool
	Activities   []ActivityView
	Scores       []ScoreView
	DayPercent   float64
	Sidebar      []DayStatusView
	CSRFToken    string
	Flash        *session.Flash
}

type DayCompleteViewData struct {
	Title      string
	Student    string
	DayLabel   string
	Theme      string
	Scores     []ScoreView
	DayPercent float64
	Sidebar    []DayStatusView
	CSRFToken  string
	Flash      *session.Flash
}

type AllCompleteViewData struct {
	Title        string
	Student      string
	ClosingAudio string
	Sidebar      []DayStatusView
	CSRFToken    string
	Flash        *session.Flash
}
