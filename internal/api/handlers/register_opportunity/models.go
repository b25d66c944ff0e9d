package register_opportunity

// RegisterOpportunityRequest HTTP request model
type RegisterOpportunityRequest struct {
	HostID int64 `json:"hostId"`
}
