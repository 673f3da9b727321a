package models

import (
	"encoding/json"
	"fmt"
)

// SessionFieldType is the field type carrying a day's literacy session in
// an authored activity pack.
const SessionFieldType = "enhanced_structured_literacy_session"

// AudioPlaceholder is the sentinel content authors use for "no audio".
const AudioPlaceholder = "[Path to audio]"

// DayPack is one day's themed bundle of activities for a student.
type DayPack struct {
	DayID        string
	Theme        string
	OpeningAudio string
	ClosingAudio string
	Activities   []Activity
}

// Activity is a named block of questions sharing a pedagogical component.
type Activity struct {
	ActivityNumber    int        `json:"activity_number"`
	Component         string     `json:"component"`
	SkillTarget       string     `json:"skill_target"`
	TimeAllocation    string     `json:"time_allocation"`
	TeachingAudio     string     `json:"teaching_audio"`
	MultisensoryAudio string     `json:"multisensory_audio"`
	TutorIntroAudio   string     `json:"tutor_intro_audio_file"`
	StoryDisplay      bool       `json:"story_display"`
	StoryText         string     `json:"story_text"`
	StoryAudio        string     `json:"story_audio_file"`
	Questions         []Question    `json:"questions"`
	FinalDisplay      *FinalDisplay `json:"final_display"`
}

// FinalDisplay is the assembled-paragraph reveal shown once every question
// of a Paragraph Writing activity is answered.
type FinalDisplay struct {
	CompleteParagraph string `json:"complete_paragraph"`
	Audio             string `json:"audio_file"`
}

// TextInputKind distinguishes plain typed answers from dictation.
type TextInputKind string

const (
	TextInputPlain     TextInputKind = "plain"
	TextInputDictation TextInputKind = "dictation"
)

// SingleSelect is a question answered by picking one option.
type SingleSelect struct {
	Options       []Option
	CorrectAnswer string
}

// Option is one selectable choice with an optional audio cue.
type Option struct {
	Text  string `json:"text"`
	Audio string `json:"audio_file"`
}

// TextInput is a question answered with free text, graded against a
// reference answer.
type TextInput struct {
	Kind           TextInputKind
	Reference      string
	DictationAudio string
}

// Question is a tagged variant: exactly one of SingleSelect or TextInput is
// set, decided and validated when the pack is unmarshalled.
type Question struct {
	Prompt        string
	PromptAudio   string
	FeedbackAudio string

	SingleSelect *SingleSelect
	TextInput    *TextInput
}

// questionJSON is the flat authored form of a question.
type questionJSON struct {
	Prompt         string   `json:"prompt"`
	PromptAudio    string   `json:"prompt_audio_file"`
	AnswerType     string   `json:"answer_type"`
	QuestionType   string   `json:"question_type"`
	Options        []Option `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
	FeedbackAudio  string   `json:"feedback_audio_file"`
	DictationAudio string   `json:"dictation_audio_file"`
}

// UnmarshalJSON converts the authored flat form into the tagged variant,
// failing fast on an unknown answer type instead of defaulting at render
// time.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.Prompt = raw.Prompt
	q.PromptAudio = raw.PromptAudio
	q.FeedbackAudio = raw.FeedbackAudio
	q.SingleSelect = nil
	q.TextInput = nil

	switch raw.AnswerType {
	case "single_select":
		q.SingleSelect = &SingleSelect{
			Options:       raw.Options,
			CorrectAnswer: raw.CorrectAnswer,
		}
	case "text_input":
		kind := TextInputPlain
		if raw.QuestionType == "text_input_dictation" {
			kind = TextInputDictation
		}
		q.TextInput = &TextInput{
			Kind:           kind,
			Reference:      raw.CorrectAnswer,
			DictationAudio: raw.DictationAudio,
		}
	default:
		return fmt.Errorf("unknown answer_type %q", raw.AnswerType)
	}

	return nil
}

// Validate checks structural invariants of a loaded day pack.
func (d *DayPack) Validate() error {
	for _, activity := range d.Activities {
		for qi, q := range activity.Questions {
			if q.SingleSelect == nil && q.TextInput == nil {
				return fmt.Errorf("activity %d question %d: no answer variant", activity.ActivityNumber, qi)
			}
			if q.SingleSelect != nil && len(q.SingleSelect.Options) == 0 {
				return fmt.Errorf("activity %d question %d: single_select with no options", activity.ActivityNumber, qi)
			}
		}
	}
	return nil
}

// QuestionRef locates a question within a day: the activity it belongs to,
// its index within that activity, and its global index across the day.
type QuestionRef struct {
	Activity    *Activity
	LocalIndex  int
	GlobalIndex int
	Question    *Question
}

// FlattenQuestions returns the day's questions in source order across all
// activities, the order used for paging and answer keys.
func (d *DayPack) FlattenQuestions() []QuestionRef {
	var refs []QuestionRef
	global := 0
	for ai := range d.Activities {
		activity := &d.Activities[ai]
		for qi := range activity.Questions {
			refs = append(refs, QuestionRef{
				Activity:    activity,
				LocalIndex:  qi,
				GlobalIndex: global,
				Question:    &activity.Questions[qi],
			})
			global++
		}
	}
	return refs
}

// packJSON is the top-level authored shape of activity_pack.json.
type packJSON struct {
	Fields []struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	} `json:"fields"`
}

// contentJSON is the session content inside the matching field.
type contentJSON struct {
	Theme        string     `json:"theme"`
	OpeningAudio string     `json:"opening_audio_file"`
	ClosingAudio string     `json:"closing_audio_file"`
	Activities   []Activity `json:"activities"`
}

// ParseDayPack decodes an authored activity_pack.json into a DayPack and
// validates its schema.
func ParseDayPack(dayID string, data []byte) (*DayPack, error) {
	var pack packJSON
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse activity pack for %s: %w", dayID, err)
	}

	for _, field := range pack.Fields {
		if field.Type != SessionFieldType {
			continue
		}

		var content contentJSON
		if err := json.Unmarshal(field.Content, &content); err != nil {
			return nil, fmt.Errorf("failed to parse session content for %s: %w", dayID, err)
		}

		day := &DayPack{
			DayID:        dayID,
			Theme:        content.Theme,
			OpeningAudio: content.OpeningAudio,
			ClosingAudio: content.ClosingAudio,
			Activities:   content.Activities,
		}
		if err := day.Validate(); err != nil {
			return nil, fmt.Errorf("invalid activity pack for %s: %w", dayID, err)
		}
		return day, nil
	}

	return nil, fmt.Errorf("activity pack for %s has no %s field", dayID, SessionFieldType)
}
