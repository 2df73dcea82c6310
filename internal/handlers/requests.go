package handlers

import "encoding/json"

// ActionRequest is the body of POST /teams/{code}/action.
type ActionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}
