package domain

// ActionStatus is the outcome of a handler
type ActionStatus string

const (
	ActionSuccess ActionStatus = "success"
	ActionError   ActionStatus = "error"
)

// Action names reported in handler results
const (
	ActionCheckStock         = "check_stock"
	ActionSearchProducts     = "search_products"
	ActionCreateReceipt      = "create_receipt"
	ActionUpdateStock        = "update_stock"
	ActionAddItem            = "add_item"
	ActionUpdateItem         = "update_item"
	ActionNormalConversation = "normal_conversation"
)

// NoActionMessage is returned for intents without a handler
const NoActionMessage = "No inventory action required"

// StockItem is one line of a stock check
type StockItem struct {
	Title        string  `json:"title"`
	SKU          string  `json:"sku,omitempty"`
	Quantity     int     `json:"quantity"`
	ReorderPoint int     `json:"reorder_point"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
}

// ActionResult is the uniform handler result
type ActionResult struct {
	Action         string         `json:"action,omitempty"`
	Status         ActionStatus   `json:"status,omitempty"`
	Message        string         `json:"message,omitempty"`
	Items          any            `json:"items,omitempty"`
	Total          int            `json:"total,omitempty"`
	Params         map[string]any `json:"params,omitempty"`
	NotImplemented bool           `json:"not_implemented,omitempty"`
}

// NoAction is the dispatcher's fallback result
func NoAction() ActionResult {
	return ActionResult{Message: NoActionMessage}
}

// OK reports whether the handler succeeded
func (r ActionResult) OK() bool {
	return r.Status == ActionSuccess
}

// DeliveryResult reports an outbound send
type DeliveryResult struct {
	Sent    bool   `json:"response_sent"`
	Text    string `json:"response_text,omitempty"`
	GroupID string `json:"group_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
