package roster

import "strings"

// Infer builds the student-to-group roster from a flat object key listing.
// Keys are expected to look like {rootPrefix}GroupX/StudentName/dayN/...
// A student is enrolled only when their folder contains at least one day of
// content; bare group-level files and reserved system files (password files,
// JSON records) are never treated as students.
//
// The first group encountered for a student wins. Later keys that place the
// same student under a different group are ignored without error, so the
// result depends on input order when the bucket contains duplicates. This
// mirrors the deployed behavior and is pinned by TestInferDuplicateStudent.
func Infer(keys []string, rootPrefix string) map[string]string {
	studentToGroup := make(map[string]string)

	for _, key := range keys {
		relative := strings.TrimPrefix(key, rootPrefix)
		parts := strings.Split(relative, "/")

		if len(parts) < 2 {
			continue
		}

		group := parts[0]
		student := parts[1]

		if group == "" || student == "" {
			continue
		}

		// Group-level files like GroupA/notes.txt are not students.
		if len(parts) == 2 && strings.Contains(student, ".") {
			continue
		}

		if isReservedName(student) {
			continue
		}

		// Require actual content inside the student folder: the next
		// segment must be a day folder, not a stray file.
		if len(parts) < 3 || !strings.HasPrefix(parts[2], "day") {
			continue
		}

		if _, exists := studentToGroup[student]; !exists {
			studentToGroup[student] = group
		}
	}

	return studentToGroup
}

// isReservedName reports whether a folder-position name is actually a
// system file (password or record files share the student path level).
func isReservedName(name string) bool {
	return strings.HasSuffix(name, "_passwords.txt") ||
		name == "passwords.json" ||
		strings.Contains(name, ".txt") ||
		strings.Contains(name, ".json")
}

// Students returns the roster's student names in no particular order.
func Students(studentToGroup map[string]string) []string {
	names := make([]string, 0, len(studentToGroup))
	for name := range studentToGroup {
		names = append(names, name)
	}
	return names
}
