package rebuild_date_capacities

// RebuildResponse HTTP response model
type RebuildResponse struct {
	OpportunityID int64 `json:"opportunityId"`
	RowsWritten   int   `json:"rowsWritten"`
}
