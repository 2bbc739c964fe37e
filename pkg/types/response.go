package types

// SuccessEnvelope wraps every successful payload as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public part of a typed error. Details map request fields
// to problems and are only set for codes that allow them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds the {"error": ...} body. Empty detail maps are
// left out of the JSON.
func NewErrorEnvelope(code, message string, details any) ErrorEnvelope {
	switch d := details.(type) {
	case map[string]string:
		if len(d) == 0 {
			details = nil
		}
	case map[string]any:
		if len(d) == 0 {
			details = nil
		}
	}
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}

// MessageBody is the bare {"message": ...} body of the root route.
type MessageBody struct {
	Message string `json:"message"`
}
