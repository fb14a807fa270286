package common

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse represents a list payload
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
