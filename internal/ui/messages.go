package ui

import (
	"errors"

	"github.com/idilsaglam/shoplist/internal/liststore"
)

// User-facing texts for list events.
const (
	MsgAdded        = "Item added"
	MsgRemoved      = "Item removed from the list."
	MsgSorted       = "List sorted by category"
	MsgEmptyList    = "Add something..."
	MsgConfirmTitle = "Are you sure?"
	MsgConfirmText  = "The item will be permanently removed from the list."
)

// Message turns a store error into the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, liststore.ErrEmptyName):
		return "Enter the item name."
	case errors.Is(err, liststore.ErrInvalidCategory):
		return "Select a valid category."
	case errors.Is(err, liststore.ErrDuplicateName):
		return "An item with this name already exists."
	case errors.Is(err, liststore.ErrNotFound):
		return "That item is no longer on the list."
	case errors.Is(err, liststore.ErrCorruptState):
		return "Saved list could not be read; starting with an empty list."
	case errors.Is(err, liststore.ErrPersist):
		var pe *liststore.PersistError
		if errors.As(err, &pe) && pe.Err != nil {
			return "Could not save the list: " + pe.Err.Error()
		}
		return "Could not save the list."
	}
	return err.Error()
}

// IsValidation reports whether err is something the user can fix by
// changing their input.
func IsValidation(err error) bool {
	var ve *liststore.ValidationError
	return errors.As(err, &ve)
}
