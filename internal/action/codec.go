package action

import (
	"encoding/json"

	"github.com/mpreston/teamsync/internal/errors"
)

// Decode turns a wire-level (name, data) pair into a typed action.
// Unknown names are rejections. A nil or empty data payload decodes as an
// empty object, matching the transport's lenient body handling.
func Decode(name string, data json.RawMessage) (Action, error) {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	switch name {
	case "createSession":
		var a CreateSession
		return unmarshalInto(&a, data, name)
	case "updateSession":
		var a UpdateSession
		return unmarshalInto(&a, data, name)
	case "updateRSVP":
		var a UpdateRSVP
		return unmarshalInto(&a, data, name)
	case "vote":
		var a Vote
		return unmarshalInto(&a, data, name)
	case "addAnnouncement":
		var a AddAnnouncement
		return unmarshalInto(&a, data, name)
	case "addFeedback":
		var a AddFeedback
		return unmarshalInto(&a, data, name)
	case "addChat":
		var a AddChat
		return unmarshalInto(&a, data, name)
	case "updateAdminPIN":
		var a UpdateAdminPIN
		return unmarshalInto(&a, data, name)
	case "resetState":
		var a ResetState
		return unmarshalInto(&a, data, name)
	default:
		return nil, errors.Rejectedf("unknown action %q", name)
	}
}

func unmarshalInto[T Action](target *T, data json.RawMessage, name string) (Action, error) {
	if err := json.Unmarshal(data, target); err != nil {
		return nil, errors.Validationf("invalid payload for %s: %v", name, err)
	}
	return *target, nil
}
