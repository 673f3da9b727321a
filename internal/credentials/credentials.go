package credentials

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"summerlit/internal/storage"
)

// Loader reads per-group credential records from the object store. Three
// authored formats exist, tried in order:
//  1. {root}{Group}/{Group}_passwords.txt — "Name: secret" lines
//  2. {root}{Group}/{Student}_passwords.txt — one secret per file
//  3. {root}{Group}/passwords.json — {name: secret} map, last resort
type Loader struct {
	store      storage.ObjectStore
	rootPrefix string
}

// NewLoader creates a credentials loader.
func NewLoader(store storage.ObjectStore, rootPrefix string) *Loader {
	return &Loader{store: store, rootPrefix: rootPrefix}
}

// LoadGroup returns the name-to-secret map for a group. Missing files are
// treated as absent, not as errors; only transport failures propagate.
func (l *Loader) LoadGroup(ctx context.Context, group string) (map[string]string, error) {
	passwords := make(map[string]string)
	groupPrefix := l.rootPrefix + group + "/"

	// Group-wide password file.
	groupFile := fmt.Sprintf("%s%s_passwords.txt", groupPrefix, group)
	content, err := l.store.Get(ctx, groupFile)
	if err != nil && !storage.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load group passwords: %w", err)
	}
	if err == nil {
		parsePasswordLines(string(content), passwords)
	}

	// Per-student password files.
	keys, err := l.store.List(ctx, groupPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list group %s: %w", group, err)
	}
	for _, key := range keys {
		if !strings.HasSuffix(key, "_passwords.txt") || key == groupFile {
			continue
		}
		filename := key[strings.LastIndex(key, "/")+1:]
		student := strings.TrimSuffix(filename, "_passwords.txt")

		content, err := l.store.Get(ctx, key)
		if err != nil {
			if storage.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load passwords for %s: %w", student, err)
		}
		secret := strings.TrimSpace(string(content))
		passwords[student] = secret
		passwords[strings.ToLower(student)] = secret
	}

	// JSON fallback only when nothing else was found.
	if len(passwords) == 0 {
		content, err := l.store.Get(ctx, groupPrefix+"passwords.json")
		if err != nil && !storage.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load passwords.json: %w", err)
		}
		if err == nil {
			// A malformed fallback file leaves the map empty rather than
			// failing the login flow.
			_ = json.Unmarshal(content, &passwords)
		}
	}

	return passwords, nil
}

// parsePasswordLines fills passwords from "Name: secret" lines, skipping
// separator and header lines.
func parsePasswordLines(content string, passwords map[string]string) {
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if !strings.Contains(line, ":") || strings.HasPrefix(line, "=") || strings.HasPrefix(line, "GROUP") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		secret := strings.TrimSpace(parts[1])
		passwords[name] = secret
		passwords[strings.ToLower(name)] = secret
	}
}

// Lookup finds a student's secret, trying the exact name, then lowercase,
// capitalized and uppercase variants in that fixed order.
func Lookup(passwords map[string]string, student string) (string, bool) {
	variants := []string{
		student,
		strings.ToLower(student),
		Capitalize(student),
		strings.ToUpper(student),
	}
	for _, name := range variants {
		if secret, ok := passwords[name]; ok {
			return secret, true
		}
	}
	return "", false
}

// Verify compares a supplied password against the stored secret in
// constant time.
func Verify(secret, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(supplied)) == 1
}

// Capitalize uppercases the first rune and lowercases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
