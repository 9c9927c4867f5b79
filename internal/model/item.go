package model

// ListItem is one entry on the shopping list.
// Items are immutable once created; the list only grows or shrinks.
type ListItem struct {
	ID         string `json:"id"`
	ItemName   string `json:"itemName"`
	CategoryID int    `json:"categoryId"`
}
