package models

import "time"

// SearchHistoryEntry records one user search, newest entries first in the stored list.
type SearchHistoryEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}
