package model

type ScanTimesheetRequest struct {
	OrganizationID string `json:"organization_id"`
	TimesheetID    string `json:"timesheet_id"`
	Barcode        string `json:"barcode"`
}

type ScanTimesheetResponse struct {
	Status string `json:"status"`
}

type TimesheetScanResult struct {
	TimesheetID string `json:"timesheetId"`
	Barcode     string `json:"barcode"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ScannedBy   string `json:"scannedBy"`
	Timestamp   int64  `json:"timestamp"`
}
