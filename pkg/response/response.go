package response

// JSONResponse is the failure envelope: {success:false, error: <message>}.
// Success bodies go through fres at the handler level.
type JSONResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
	Data    any    `json:"data,omitempty"`
}

func Error(code, message string, data any) JSONResponse {
	return JSONResponse{
		Success: false,
		Code:    code,
		Error:   message,
		Data:    data,
	}
}
