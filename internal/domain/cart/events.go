package cart

import "time"

// ItemAddedEvent is emitted when a product enters the cart for the first time.
type ItemAddedEvent struct {
	ProductID   string
	ProductName string
	Quantity    int
	OccurredAt  time.Time
}

func (ItemAddedEvent) EventName() string { return "cart.item_added" }

func NewItemAddedEvent(e Entry) ItemAddedEvent {
	return ItemAddedEvent{
		ProductID:   e.Product.ID,
		ProductName: e.Product.Name,
		Quantity:    e.Quantity,
		OccurredAt:  time.Now().UTC(),
	}
}

// ItemMergedEvent is emitted when an add lands on an existing entry.
type ItemMergedEvent struct {
	ProductID   string
	ProductName string
	Delta       int
	Quantity    int
	OccurredAt  time.Time
}

func (ItemMergedEvent) EventName() string { return "cart.item_merged" }

func NewItemMergedEvent(e Entry, delta int) ItemMergedEvent {
	return ItemMergedEvent{
		ProductID:   e.Product.ID,
		ProductName: e.Product.Name,
		Delta:       delta,
		Quantity:    e.Quantity,
		OccurredAt:  time.Now().UTC(),
	}
}

// ItemRemovedEvent is emitted by remove intents and non-positive updates.
type ItemRemovedEvent struct {
	ProductID  string
	OccurredAt time.Time
}

func (ItemRemovedEvent) EventName() string { return "cart.item_removed" }

func NewItemRemovedEvent(productID string) ItemRemovedEvent {
	return ItemRemovedEvent{
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}
}

type ClearedEvent struct {
	OccurredAt time.Time
}

func (ClearedEvent) EventName() string { return "cart.cleared" }

func NewClearedEvent() ClearedEvent {
	return ClearedEvent{OccurredAt: time.Now().UTC()}
}
