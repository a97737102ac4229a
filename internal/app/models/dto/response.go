package dto

// SuccessResponse is returned by updates and deletes
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty"`
}

// OK is the plain {success:true} body
func OK() SuccessResponse {
	return SuccessResponse{Success: true}
}

// CountResponse reports how many rows an action touched
type CountResponse struct {
	Success bool  `json:"success" example:"true"`
	Updated int64 `json:"updated" example:"3"`
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	CurrentPage int   `json:"current_page" example:"1"`
	TotalPages  int   `json:"total_pages" example:"4"`
	PageSize    int   `json:"page_size" example:"20"`
	TotalItems  int64 `json:"total_items" example:"72"`
}

// HealthResponse reports store connectivity
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}
