package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shoplist/internal/liststore"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/ui"
)

var catalog = model.MustCatalog([]model.Category{
	{ID: 1, Name: "Fruits"},
	{ID: 2, Name: "Bakery"},
	{ID: 3, Name: "Dairy"},
})

func newStore(t *testing.T) (*liststore.Store, *store.Memory) {
	t.Helper()
	slot := store.NewMemory()
	s := liststore.New(slot, catalog)
	require.NoError(t, s.Load())
	return s, slot
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestAddFlow(t *testing.T) {
	s, _ := newStore(t)
	m := New(s, nil)

	m = send(t, m, runes("a"))
	assert.Equal(t, modeAddName, m.mode)

	m = send(t, m, runes("Milk"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAddCategory, m.mode)
	assert.Equal(t, "Milk", m.pendingName)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, ui.MsgAdded, m.status)
	assert.False(t, m.statusErr)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].ItemName)
	assert.Equal(t, 3, items[0].CategoryID)
	assert.Len(t, m.list.Items(), 1)
}

func TestAddFlow_RejectsEmptyAndDuplicate(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.AddItem("Bread", 2)
	require.NoError(t, err)
	m := New(s, nil)

	m = send(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAddName, m.mode)
	assert.True(t, m.statusErr)
	assert.Equal(t, "Enter the item name.", m.status)

	m = send(t, m, runes("Bread"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAddName, m.mode)
	assert.Equal(t, "An item with this name already exists.", m.status)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 1, s.Len())
}

func TestAddFlow_KeepsSurroundingSpaces(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.AddItem("Milk", 1)
	require.NoError(t, err)
	m := New(s, nil)

	m = send(t, m, runes("a"), runes(" Milk"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAddCategory, m.mode)
	assert.Equal(t, " Milk", m.pendingName)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBrowse, m.mode)
	assert.False(t, m.statusErr)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, " Milk", s.Items()[1].ItemName)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	s, _ := newStore(t)
	_, _ = s.AddItem("Apples", 1)
	_, _ = s.AddItem("Bread", 2)
	m := New(s, nil)

	m = send(t, m, runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	m = send(t, m, runes("n"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 2, s.Len())

	m = send(t, m, runes("d"), runes("y"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, ui.MsgRemoved, m.status)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Bread", s.Items()[0].ItemName)
	assert.Len(t, m.list.Items(), 1)
}

func TestDeleteOnEmptyListDoesNothing(t *testing.T) {
	s, _ := newStore(t)
	m := send(t, New(s, nil), runes("d"))
	assert.Equal(t, modeBrowse, m.mode)
}

func TestSort(t *testing.T) {
	s, _ := newStore(t)
	_, _ = s.AddItem("Yogurt", 3)
	_, _ = s.AddItem("Apples", 1)
	m := New(s, nil)

	m = send(t, m, runes("s"))
	assert.Equal(t, ui.MsgSorted, m.status)
	assert.Equal(t, "Apples", s.Items()[0].ItemName)
	first, ok := m.list.Items()[0].(listItem)
	require.True(t, ok)
	assert.Equal(t, "Apples", first.item.ItemName)
	assert.Equal(t, "Fruits", first.category)
}

func TestPersistFailureShowsError(t *testing.T) {
	s, slot := newStore(t)
	_, _ = s.AddItem("Yogurt", 3)
	_, _ = s.AddItem("Apples", 1)
	slot.PutErr = errors.New("disk full")
	m := New(s, nil)

	m = send(t, m, runes("s"))
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "disk full")
	assert.Equal(t, "Yogurt", s.Items()[0].ItemName)
}

func TestQuit(t *testing.T) {
	s, _ := newStore(t)
	_, cmd := New(s, nil).Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	ui.SetTheme("mono")
	defer ui.SetTheme("classic")

	s, _ := newStore(t)
	m := send(t, New(s, nil), tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), ui.MsgEmptyList)

	_, _ = s.AddItem("Cheddar", 3)
	m = New(s, nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, runes("d"))
	v := m.View()
	assert.Contains(t, v, "Cheddar")
	assert.Contains(t, v, ui.MsgConfirmTitle)
}
