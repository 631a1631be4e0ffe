package transport

import "encoding/json"

// Envelope wraps every API response. Success responses carry Data; error
// responses carry a machine-checkable Code, a human-readable Error and
// optional Details.
type Envelope struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

func NewError(code, message string, details interface{}) Envelope {
	return Envelope{Status: "error", Code: code, Error: message, Details: details}
}

// String renders the envelope as JSON for log lines. A marshal failure
// degrades to an empty object.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
