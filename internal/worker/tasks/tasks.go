package worker_task

const TaskDrainSyncQueue = "sync:drain_queue"

const QueueSync = "sync"

// DrainSyncQueuePayload: BatchSize 0 bedeutet Standardwert aus SYNC.BATCH_SIZE.
type DrainSyncQueuePayload struct {
	BatchSize int    `json:"batch_size,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
