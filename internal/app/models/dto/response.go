package dto

import "net/http"

// Result is the envelope of the student facing endpoints. Business failures are
// reported with Success=false and HTTP 200.
type Result struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

// APIResponse is the envelope of the reviewer endpoints. Code mirrors an HTTP status.
type APIResponse struct {
	Code    int         `json:"code" example:"200"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data"`
}

// NewAPIResponse wraps data in a successful APIResponse
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{Code: http.StatusOK, Message: "success", Data: data}
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	Total      int64 `json:"total" example:"42"`
	Page       int   `json:"page" example:"1"`
	Size       int   `json:"size" example:"10"`
	TotalPages int   `json:"total_pages" example:"5"`
}

// ListData is a page of items
type ListData struct {
	List interface{} `json:"list"`
	PaginationInfo
}
