package liststore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/idilsaglam/shoplist/internal/model"
)

// wireItem mirrors model.ListItem with pointers so missing fields can be
// told apart from zero values.
type wireItem struct {
	ID         *string `json:"id"`
	ItemName   *string `json:"itemName"`
	CategoryID *int    `json:"categoryId"`
}

func encode(items []model.ListItem) ([]byte, error) {
	if items == nil {
		items = []model.ListItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// decode is strict: the payload must be a JSON array of objects carrying
// exactly id, itemName and categoryId, with unique ids and names.
func decode(key string, b []byte) ([]model.ListItem, error) {
	corrupt := func(reason string, err error) error {
		return &CorruptStateError{Key: key, Reason: reason, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var raw []*wireItem
	if err := dec.Decode(&raw); err != nil {
		return nil, corrupt("not a list of items", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, corrupt("trailing data after list", err)
	}
	if raw == nil {
		// "null" is not a list.
		return nil, corrupt("not a list of items", nil)
	}

	items := make([]model.ListItem, 0, len(raw))
	ids := make(map[string]struct{}, len(raw))
	names := make(map[string]struct{}, len(raw))
	for i, w := range raw {
		switch {
		case w == nil:
			return nil, corrupt(fmt.Sprintf("item %d is null", i), nil)
		case w.ID == nil || *w.ID == "":
			return nil, corrupt(fmt.Sprintf("item %d: missing id", i), nil)
		case w.ItemName == nil || *w.ItemName == "":
			return nil, corrupt(fmt.Sprintf("item %d: missing itemName", i), nil)
		case w.CategoryID == nil:
			return nil, corrupt(fmt.Sprintf("item %d: missing categoryId", i), nil)
		}
		if _, dup := ids[*w.ID]; dup {
			return nil, corrupt(fmt.Sprintf("item %d: duplicate id %q", i, *w.ID), nil)
		}
		if _, dup := names[*w.ItemName]; dup {
			return nil, corrupt(fmt.Sprintf("item %d: duplicate itemName %q", i, *w.ItemName), nil)
		}
		ids[*w.ID] = struct{}{}
		names[*w.ItemName] = struct{}{}
		items = append(items, model.ListItem{ID: *w.ID, ItemName: *w.ItemName, CategoryID: *w.CategoryID})
	}
	return items, nil
}
