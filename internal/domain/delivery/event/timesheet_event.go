package event

import "github.com/carerota/backend/internal/model"

const (
	TimesheetScanOp      = "TIMESHEET_SCAN"
	TimesheetProcessedOp = "TIMESHEET_PROCESSED"
	TimesheetAdminOp     = "TIMESHEET_ADMIN_NOTIFICATION"
)

type TimesheetScanEvent struct {
	model.TimesheetScanResult
}

func (*TimesheetScanEvent) Op() string {
	return TimesheetScanOp
}

func (*TimesheetScanEvent) payloadField() {}

type TimesheetProcessedEvent struct {
	model.TimesheetScanResult
}

func (*TimesheetProcessedEvent) Op() string {
	return TimesheetProcessedOp
}

func (*TimesheetProcessedEvent) payloadField() {}

type TimesheetAdminEvent struct {
	TimesheetID string `json:"timesheetId"`
	ScannedBy   string `json:"scannedBy"`
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
}

func (*TimesheetAdminEvent) Op() string {
	return TimesheetAdminOp
}

func (*TimesheetAdminEvent) payloadField() {}
