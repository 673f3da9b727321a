package content

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"summerlit/internal/models"
	"summerlit/internal/storage"
)

// Loader discovers and loads day packs for a student from the object store.
type Loader struct {
	store storage.ObjectStore
}

// NewLoader creates a content loader.
func NewLoader(store storage.ObjectStore) *Loader {
	return &Loader{store: store}
}

// LoadDays lists the student's day folders, loads each activity pack, and
// returns day ids in ascending day-number order. A day whose pack is
// missing or malformed is skipped with a log line; the rest of the session
// keeps working. Only a listing failure is an error.
func (l *Loader) LoadDays(ctx context.Context, studentPrefix string) ([]string, map[string]*models.DayPack, error) {
	keys, err := l.store.List(ctx, studentPrefix+"/")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list days for %s: %w", studentPrefix, err)
	}

	dayIDs := discoverDayFolders(keys, studentPrefix)

	days := make([]string, 0, len(dayIDs))
	packs := make(map[string]*models.DayPack, len(dayIDs))
	for _, dayID := range dayIDs {
		packKey := fmt.Sprintf("%s/%s/activity_pack.json", studentPrefix, dayID)
		body, err := l.store.Get(ctx, packKey)
		if err != nil {
			if !storage.IsNotFound(err) {
				log.Printf("Skipping %s: %v", packKey, err)
			}
			continue
		}

		pack, err := models.ParseDayPack(dayID, body)
		if err != nil {
			log.Printf("Skipping %s: %v", packKey, err)
			continue
		}

		days = append(days, dayID)
		packs[dayID] = pack
	}

	return days, packs, nil
}

// discoverDayFolders extracts day folder names from a flat key listing and
// sorts them by their integer suffix.
func discoverDayFolders(keys []string, studentPrefix string) []string {
	seen := make(map[string]bool)
	var dayIDs []string
	for _, key := range keys {
		relative := strings.TrimPrefix(key, studentPrefix+"/")
		segments := strings.Split(relative, "/")
		if len(segments) < 2 {
			continue
		}
		folder := segments[0]
		if _, ok := dayNumber(folder); !ok || seen[folder] {
			continue
		}
		seen[folder] = true
		dayIDs = append(dayIDs, folder)
	}

	sort.Slice(dayIDs, func(i, j int) bool {
		ni, _ := dayNumber(dayIDs[i])
		nj, _ := dayNumber(dayIDs[j])
		return ni < nj
	})
	return dayIDs
}

// dayNumber parses the integer suffix of a day folder name.
func dayNumber(folder string) (int, bool) {
	if !strings.HasPrefix(folder, "day") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(folder, "day"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ResolveAudioPath turns an authored audio reference into an object key.
// References already rooted at a day folder resolve against the student
// prefix; everything else resolves inside the current day. Empty and
// placeholder references resolve to "".
func ResolveAudioPath(audio, studentPrefix, dayID string) string {
	if audio == "" || audio == models.AudioPlaceholder {
		return ""
	}
	if strings.HasPrefix(audio, "day") {
		return studentPrefix + "/" + audio
	}
	return studentPrefix + "/" + dayID + "/" + audio
}
