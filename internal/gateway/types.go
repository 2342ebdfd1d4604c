package gateway

import "encoding/json"

// Response messages.
const (
	msgOnlyPOST         = "Only POST requests are allowed."
	msgInvalidJSON      = "Invalid JSON body."
	msgBodyTooLarge     = "Request body too large."
	msgInvalidTable     = "Missing or invalid 'table' name."
	msgInvalidStructure = "Missing or invalid 'structure' object."
	msgInvalidSet       = "Missing or invalid 'setClause'."
	msgInvalidCondition = "Invalid 'condition'."
	msgInvalidPath      = "Invalid endpoint path."
	msgCreateFailed     = "Table creation failed"
	msgDeleteFailed     = "Table deletion failed"
	msgUpdateFailed     = "Table update failed"
)

// tableRequest is the body accepted by every endpoint. Fields are kept raw so
// that type mismatches can be reported per field.
type tableRequest struct {
	Table     json.RawMessage `json:"table"`
	Structure json.RawMessage `json:"structure"`
	SetClause json.RawMessage `json:"setClause"`
	Condition json.RawMessage `json:"condition"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
