package worker_handler

import (
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
)

type WorkerHandler struct {
	sync      zimbra_sync_case.ZimbraSyncServiceContract
	batchSize int
}

func NewWorkerHandler(sync zimbra_sync_case.ZimbraSyncServiceContract, batchSize int) *WorkerHandler {
	return &WorkerHandler{
		sync:      sync,
		batchSize: batchSize,
	}
}
