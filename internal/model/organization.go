package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Organization is a CRM organization
type Organization struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Domain      string      `json:"domain,omitempty"`
	Domains     []string    `json:"domains,omitempty"`
	ListEntries []ListEntry `json:"list_entries,omitempty"` // Only present on detail responses
}

// ListEntry links a CRM entity to a list
type ListEntry struct {
	ID        int64  `json:"id"`
	ListID    int64  `json:"list_id"`
	EntityID  int64  `json:"entity_id"`
	CreatedAt string `json:"created_at,omitempty"`
	Entity    struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Domain string `json:"domain,omitempty"`
	} `json:"entity"`
}

// Note is one entry of an organization's activity feed
type Note struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Date returns the YYYY-MM-DD prefix of the creation timestamp
func (n Note) Date() string {
	if len(n.CreatedAt) >= 10 {
		return n.CreatedAt[:10]
	}
	return n.CreatedAt
}

// FieldValue is one custom field value on a list entry
type FieldValue struct {
	ID          int64           `json:"id"`
	FieldID     int64           `json:"field_id"`
	ListEntryID int64           `json:"list_entry_id"`
	Value       json.RawMessage `json:"value"`
}

// Text returns a display string for the value: the option text for
// dropdown values, the literal otherwise
func (f FieldValue) Text() string {
	v := bytes.TrimSpace(f.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	switch v[0] {
	case '{':
		var opt struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(v, &opt); err == nil {
			return opt.Text
		}
		return ""
	case '"':
		var s string
		_ = json.Unmarshal(v, &s)
		return s
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
		return strings.Trim(string(v), `"`)
	}
}

// OptionID returns the dropdown option id, or 0 when the value is not an option
func (f FieldValue) OptionID() int64 {
	v := bytes.TrimSpace(f.Value)
	if len(v) == 0 || v[0] != '{' {
		return 0
	}
	var opt struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(v, &opt); err != nil {
		return 0
	}
	return opt.ID
}

// OrgRef renders an organization for log lines
func OrgRef(o *Organization) string {
	if o == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s (#%d)", o.Name, o.ID)
}
