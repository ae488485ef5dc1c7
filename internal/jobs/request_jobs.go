package jobs

import (
	"context"

	"assetdesk-backend/internal/logger"
)

// ReportOverdueReturns logs approved returnable assets past their return
// deadline. Nothing is changed; the log is the report.
func (jr *JobRunner) ReportOverdueReturns() {
	jr.runWithRecovery(JobReportOverdueReturns, func(ctx context.Context) {
		overdue, err := jr.services.Requests.ListOverdueReturns(ctx)
		if err != nil {
			logger.Error("Failed to list overdue returns", "error", err)
			return
		}

		for _, req := range overdue {
			logger.Warn("Asset return overdue",
				"request_id", req.ID,
				"asset_id", req.AssetID,
				"asset_name", req.AssetName,
				"requester_id", req.RequesterID,
				"hr_id", req.HRID,
				"return_deadline", req.ReturnDeadline,
			)
		}
		logger.Info("Reported overdue returns", "count", len(overdue))
	})
}
