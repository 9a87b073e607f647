package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// ComputeRequest carries caller-supplied aggregate rows for an ad-hoc computation.
type ComputeRequest struct {
	Rows []SalesAggregateRow `json:"rows"`
}
