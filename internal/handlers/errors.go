package handlers

import (
	"log"
	"net/http"
)

// respondWithError logs the underlying error with server-side detail and
// sends only the student-safe message. Bucket keys, student prefixes, and
// SQL errors stay in the log, never in the response body.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}
