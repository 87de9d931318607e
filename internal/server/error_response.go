package server

type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}

// newDemangleErrorResponse also reports the error category.
func newDemangleErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Error:    err.Error(),
		Category: demangleCategory(err),
	}
}
