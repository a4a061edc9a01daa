package errors

import "net/http"

// Taxonomy codes for the transcription pipeline and its HTTP surface.
// Validation and transcription failures abort a job; diarization
// degradation never does.
const (
	CodeInternal            = 1000
	CodeBadRequest          = 1001
	CodeUnauthorized        = 1002
	CodeForbidden           = 1003
	CodeNotFound            = 1004
	CodeUnsupportedFormat   = 2001
	CodeFileTooLarge        = 2002
	CodeTranscriptionFailed = 2003
	CodeDiarizationDegraded = 2004
	CodeStorageError        = 2005
)

// HTTPStatus maps a taxonomy code to the response status.
func HTTPStatus(code int) int {
	switch code {
	case CodeBadRequest, CodeUnsupportedFormat, CodeFileTooLarge:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
