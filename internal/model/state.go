package model

import "time"

// RequestState tracks whether an upload is outstanding.
type RequestState string

const (
	StateIdle     RequestState = "idle"
	StateInFlight RequestState = "in-flight"
)

// NoticeKind classifies a transient notice.
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is a transient, dismissible message shown after an action.
type Notice struct {
	Kind    NoticeKind
	Message string
	Shown   time.Time
}

// ParseNoticeKind maps a string to a NoticeKind. ok is false for unknown kinds.
func ParseNoticeKind(s string) (kind NoticeKind, ok bool) {
	switch NoticeKind(s) {
	case NoticeError:
		return NoticeError, true
	case NoticeSuccess:
		return NoticeSuccess, true
	}
	return "", false
}
