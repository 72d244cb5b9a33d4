package usecase

import (
	"context"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/domain"
)

// Handler executes the business action for one intent
type Handler func(ctx context.Context, params map[string]any) domain.ActionResult

// Dispatcher routes intents through a fixed lookup table
type Dispatcher struct {
	handlers map[domain.IntentKind]Handler
}

// NewDispatcher builds the table from explicit handlers
func NewDispatcher(handlers map[domain.IntentKind]Handler) *Dispatcher {
	table := make(map[domain.IntentKind]Handler, len(handlers))
	for k, h := range handlers {
		if h != nil {
			table[k] = h
		}
	}
	return &Dispatcher{handlers: table}
}

// NewInventoryDispatcher wires every classifiable intent to its handler
func NewInventoryDispatcher(inv *InventoryUsecase, assistant *AssistantUsecase) *Dispatcher {
	return NewDispatcher(map[domain.IntentKind]Handler{
		domain.IntentCheckStock:         inv.CheckStock,
		domain.IntentSearchProducts:     inv.SearchProducts,
		domain.IntentCreateReceipt:      inv.CreateReceipt,
		domain.IntentUpdateStock:        inv.UpdateStock,
		domain.IntentAddItem:            inv.AddItem,
		domain.IntentUpdateItem:         inv.UpdateItem,
		domain.IntentNormalConversation: assistant.HandleNormalConversation,
	})
}

// Dispatch runs the handler for the intent, or returns the no-op result
func (d *Dispatcher) Dispatch(ctx context.Context, intent domain.Intent) domain.ActionResult {
	h, ok := d.handlers[intent.Kind]
	if !ok {
		return domain.NoAction()
	}
	params := intent.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return h(ctx, params)
}

// Handles reports whether a kind has a handler
func (d *Dispatcher) Handles(kind domain.IntentKind) bool {
	_, ok := d.handlers[kind]
	return ok
}
