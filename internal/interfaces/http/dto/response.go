package dto

// SuccessResponse acknowledges an applied shipment notification
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse() SuccessResponse {
	return SuccessResponse{Success: true}
}

// ProcessRequest carries the action discriminator of a fulfillment request
type ProcessRequest struct {
	Action string `form:"action"`
}
