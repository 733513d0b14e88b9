package aleph

// RecordStatus classifies the lifecycle state of one harvested record.
type RecordStatus string

const (
	// StatusActive means the record is present and its body parsed.
	StatusActive RecordStatus = "Active"

	// StatusDeleted means the server marked the record deleted; no body exists.
	StatusDeleted RecordStatus = "Deleted"

	// StatusFailed means the record body could not be parsed as MARC.
	StatusFailed RecordStatus = "Failed"
)
