package learning

import "strings"

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

func ParseProgressStatus(raw string) (ProgressStatus, bool) {
	s := ProgressStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return s, true
	}
	return "", false
}
