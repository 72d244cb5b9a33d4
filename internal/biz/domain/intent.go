package domain

import (
	"encoding/json"
	"strings"
)

// IntentKind is the classified purpose of a message
type IntentKind string

const (
	IntentCheckStock         IntentKind = "CHECK_STOCK_LEVELS"
	IntentCreateReceipt      IntentKind = "CREATE_RECEIPT"
	IntentUpdateStock        IntentKind = "UPDATE_STOCK_QUANTITIES"
	IntentAddItem            IntentKind = "ADD_NEW_ITEMS"
	IntentUpdateItem         IntentKind = "UPDATE_ITEM"
	IntentSearchProducts     IntentKind = "SEARCH_PRODUCTS"
	IntentNormalConversation IntentKind = "NORMAL_CONVERSATION"
	IntentUnknown            IntentKind = "UNKNOWN"
)

// IntentKinds lists every classifiable kind (UNKNOWN excluded)
var IntentKinds = []IntentKind{
	IntentCheckStock,
	IntentCreateReceipt,
	IntentUpdateStock,
	IntentAddItem,
	IntentUpdateItem,
	IntentSearchProducts,
	IntentNormalConversation,
}

// ParseIntentKind maps a model label to a kind; anything unrecognized is UNKNOWN
func ParseIntentKind(label string) IntentKind {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for _, k := range IntentKinds {
		if string(k) == normalized {
			return k
		}
	}
	return IntentUnknown
}

// Replies reports whether the handler result for this kind is sent back to the group
func (k IntentKind) Replies() bool {
	switch k {
	case IntentCheckStock, IntentSearchProducts, IntentNormalConversation:
		return true
	}
	return false
}

// Intent is the classifier output
type Intent struct {
	Kind       IntentKind     `json:"intent"`
	Label      string         `json:"label,omitempty"`
	Parameters map[string]any `json:"parameters"`
	Error      string         `json:"error,omitempty"`
}

// UnknownIntent builds a failed classification result
func UnknownIntent(errMsg string) Intent {
	return Intent{
		Kind:       IntentUnknown,
		Parameters: map[string]any{},
		Error:      errMsg,
	}
}

// Failed reports whether classification failed
func (i Intent) Failed() bool {
	return i.Error != ""
}

// StringParam returns a trimmed string parameter, or "" when absent or not a string
func (i Intent) StringParam(key string) string {
	if v, ok := i.Parameters[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// JSON serializes the intent for the audit record
func (i Intent) JSON() json.RawMessage {
	data, err := json.Marshal(i)
	if err != nil {
		return nil
	}
	return data
}
