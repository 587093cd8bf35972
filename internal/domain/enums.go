package domain

// AttachmentType classifies an email attachment by content.
type AttachmentType string

const (
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentExcel AttachmentType = "excel"
	AttachmentCSV   AttachmentType = "csv"
	AttachmentImage AttachmentType = "image"
	AttachmentOther AttachmentType = "other"
)

// AnomalyType identifies the detection rule (or extraction failure) that
// produced a finding.
type AnomalyType string

const (
	AnomalyDoubleCount      AnomalyType = "DOUBLE_COUNT"
	AnomalyMissingPaperwork AnomalyType = "MISSING_PAPERWORK"
	AnomalyAWBMismatch      AnomalyType = "AWB_MISMATCH"
	AnomalyWeightOutlier    AnomalyType = "WEIGHT_OUTLIER"
	AnomalyMissingAWB       AnomalyType = "MISSING_AWB"
	AnomalyMissingData      AnomalyType = "MISSING_DATA"
)

// Severity ranks an anomaly finding.
type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)
