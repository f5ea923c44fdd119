package models

import (
	"bytes"
	"encoding/json"
)

// TurnState is the opaque token the backend returns with every assistant
// response. The client stores the latest one and echoes it back unchanged.
type TurnState json.RawMessage

func (s TurnState) MarshalJSON() ([]byte, error) {
	if s.IsNull() {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *TurnState) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = nil
		return nil
	}
	*s = append((*s)[:0], b...)
	return nil
}

// IsNull reports whether the token is absent.
func (s TurnState) IsNull() bool {
	t := bytes.TrimSpace(s)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// DebugInfo holds the only two sub-fields the client ever reads from a token.
type DebugInfo struct {
	Status        string
	MissingFields []string
}

// Debug extracts status and missing_fields for display. Tokens of any
// other shape yield an empty DebugInfo.
func (s TurnState) Debug() DebugInfo {
	if s.IsNull() {
		return DebugInfo{}
	}
	var probe struct {
		Status        string   `json:"status"`
		MissingFields []string `json:"missing_fields"`
	}
	if err := json.Unmarshal(s, &probe); err != nil {
		return DebugInfo{}
	}
	return DebugInfo{Status: probe.Status, MissingFields: probe.MissingFields}
}
