package serverutils

type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) *Response[T] {
	return &Response[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

// ErrorBody is the error envelope every failed request receives.
type ErrorBody struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

func ErrorResponse(code int, detail string) *ErrorBody {
	return &ErrorBody{
		Success:    false,
		StatusCode: code,
		Detail:     detail,
	}
}
