package content

import (
	"context"
	"testing"

	"summerlit/internal/storage"
)

const prefix = "Summer_Activities/GroupA/Alice"

const validPack = `{
  "fields": [
    {
      "type": "enhanced_structured_literacy_session",
      "content": {
        "theme": "Ocean Adventures",
        "opening_audio_file": "opening.mp3",
        "activities": [
          {
            "activity_number": 1,
            "component": "Dictation",
            "questions": [
              {
                "prompt": "Write the sentence you hear",
                "answer_type": "text_input",
                "question_type": "text_input_dictation",
                "correct_answer": "the cat sat"
              }
            ]
          }
        ]
      }
    }
  ]
}`

func TestLoadDaysOrdersByDayNumber(t *testing.T) {
	store := storage.NewMemStore()
	store.Seed(prefix+"/day10/activity_pack.json", []byte(validPack))
	store.Seed(prefix+"/day2/activity_pack.json", []byte(validPack))
	store.Seed(prefix+"/day1/activity_pack.json", []byte(validPack))

	loader := NewLoader(store)
	days, packs, err := loader.LoadDays(context.Background(), prefix)
	if err != nil {
		t.Fatalf("LoadDays() error: %v", err)
	}

	expected := []string{"day1", "day2", "day10"}
	if len(days) != len(expected) {
		t.Fatalf("days = %v, want %v", days, expected)
	}
	for i, day := range expected {
		if days[i] != day {
			t.Errorf("days[%d] = %q, want %q", i, days[i], day)
		}
		if packs[day] == nil {
			t.Errorf("missing pack for %s", day)
		}
	}

	if packs["day1"].Theme != "Ocean Adventures" {
		t.Errorf("theme = %q", packs["day1"].Theme)
	}
}

func TestLoadDaysSkipsBrokenPacks(t *testing.T) {
	store := storage.NewMemStore()
	store.Seed(prefix+"/day1/activity_pack.json", []byte(validPack))
	store.Seed(prefix+"/day2/activity_pack.json", []byte("{not json"))
	store.Seed(prefix+"/day3/notes.mp3", []byte("audio"))
	store.Seed(prefix+"/progress.json", []byte("{}"))

	loader := NewLoader(store)
	days, _, err := loader.LoadDays(context.Background(), prefix)
	if err != nil {
		t.Fatalf("LoadDays() error: %v", err)
	}

	// day2 is malformed, day3 has no activity pack; both are absent, not
	// fatal. progress.json is not a day folder.
	if len(days) != 1 || days[0] != "day1" {
		t.Errorf("days = %v, want [day1]", days)
	}
}

func TestResolveAudioPath(t *testing.T) {
	tests := []struct {
		name     string
		audio    string
		expected string
	}{
		{"empty", "", ""},
		{"placeholder", "[Path to audio]", ""},
		{"relative to day", "opening.mp3", prefix + "/day1/opening.mp3"},
		{"already day-rooted", "day2/closing.mp3", prefix + "/day2/closing.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAudioPath(tt.audio, prefix, "day1")
			if got != tt.expected {
				t.Errorf("ResolveAudioPath(%q) = %q, want %q", tt.audio, got, tt.expected)
			}
		})
	}
}
