package admin_dto

import "github.com/neolist/neolist/internal/entity"

type ForceSyncResponse struct {
	TaskID  string                          `json:"task_id"`
	Results []entity.SyncResult             `json:"results"`
	Summary map[entity.SyncResultStatus]int `json:"summary"`
}

type QueueEntriesResponse struct {
	Status  string                  `json:"status,omitempty"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
	Entries []entity.SyncQueueEntry `json:"entries"`
}

// QueueStatsResponse enthält jeden Status, auch mit Anzahl 0.
type QueueStatsResponse struct {
	Stats []entity.SyncQueueStats `json:"stats"`
	Total int64                   `json:"total"`
}
