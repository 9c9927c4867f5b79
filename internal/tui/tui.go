// Package tui is the interactive shopping list. Every action goes straight
// to the store, so the list on disk always matches the screen.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/shoplist/internal/liststore"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/ui"
)

type mode int

const (
	modeBrowse mode = iota
	modeAddName
	modeAddCategory
	modeConfirmDelete
)

// listItem adapts model.ListItem to bubbles/list.Item
type listItem struct {
	item     model.ListItem
	category string
}

func (i listItem) Title() string       { return i.item.ItemName }
func (i listItem) Description() string { return i.category }
func (i listItem) FilterValue() string { return i.item.ItemName + " " + i.category }

// itemDelegate renders a single line per item.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	name := ui.Truncate(it.item.ItemName, 60)
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.Cursor)
		name = t.Selected.Render(name)
	}
	fmt.Fprintf(w, "%s%s %s  %s", prefix, t.Accent.Render(t.Bullet), name, t.Muted.Render(it.category))
}

// Model is the Bubble Tea model for the list screen.
type Model struct {
	store *liststore.Store
	log   *zap.Logger

	list   list.Model
	input  textinput.Model
	mode   mode
	width  int
	height int

	// add flow
	pendingName string
	catCursor   int

	status    string
	statusErr bool
}

var (
	addBind  = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	delBind  = key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete"))
	sortBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by category"))
	quitBind = key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit"))
)

// New builds the model around an already loaded store.
func New(s *liststore.Store, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	t := ui.Current()

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.Title = "Shopping list"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Muted
	l.Styles.PaginationStyle = t.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, delBind, sortBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, delBind, sortBind, quitBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Item name..."
	ti.CharLimit = 200

	m := Model{store: s, log: log, list: l, input: ti}
	m.refresh(0)
	return m
}

// Run starts the program on the terminal's alternate screen.
func Run(s *liststore.Store, log *zap.Logger) error {
	_, err := tea.NewProgram(New(s, log), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case modeAddName:
		return m.updateAddName(msg)
	case modeAddCategory:
		return m.updateAddCategory(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}

	// keys typed into the filter belong to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, quitBind):
			if k.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case key.Matches(k, addBind):
			m.mode = modeAddName
			m.status = ""
			m.input.SetValue("")
			m.input.Placeholder = "Item name..."
			m.resize()
			return m, m.input.Focus()
		case key.Matches(k, delBind):
			if _, ok := m.list.SelectedItem().(listItem); ok {
				m.mode = modeConfirmDelete
				m.resize()
			}
			return m, nil
		case key.Matches(k, sortBind):
			m.apply(m.store.SortByCategory(), ui.MsgSorted)
			m.refresh(0)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddName(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			name := m.input.Value()
			if name == "" {
				m.setError(&liststore.ValidationError{Err: liststore.ErrEmptyName})
				return m, nil
			}
			if _, dup := m.store.FindByName(name); dup {
				m.setError(&liststore.ValidationError{Name: name, Err: liststore.ErrDuplicateName})
				return m, nil
			}
			m.pendingName = name
			m.status = ""
			m.input.Blur()
			m.mode = modeAddCategory
			m.catCursor = 0
			m.resize()
			return m, nil
		case "esc":
			return m.cancel(), nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateAddCategory(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	cats := m.store.Catalog().Categories()
	switch k.String() {
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "down", "j":
		if m.catCursor < len(cats)-1 {
			m.catCursor++
		}
	case "enter":
		it, err := m.store.AddItem(m.pendingName, cats[m.catCursor].ID)
		if err != nil {
			m.setError(err)
			if ui.IsValidation(err) {
				// back to the name so the user can fix it
				m.mode = modeAddName
				return m, m.input.Focus()
			}
			return m.cancel(), nil
		}
		m.apply(nil, ui.MsgAdded)
		m = m.cancel()
		m.refresh(m.store.Len() - 1)
		m.log.Debug("added from tui", zap.String("id", it.ID))
	case "esc":
		m.mode = modeAddName
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(k.String()) {
	case "y", "enter":
		if li, ok := m.list.SelectedItem().(listItem); ok {
			idx := m.list.Index()
			m.apply(m.store.DeleteItem(li.item.ID), ui.MsgRemoved)
			m.refresh(idx)
		}
		m.mode = modeBrowse
	case "n", "esc", "q":
		m.mode = modeBrowse
	}
	m.resize()
	return m, nil
}

// apply records the outcome of a store call in the status line.
func (m *Model) apply(err error, okMsg string) {
	if err != nil {
		m.setError(err)
		return
	}
	m.status, m.statusErr = okMsg, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = ui.Message(err), true
	if !ui.IsValidation(err) {
		m.log.Warn("tui action failed", zap.Error(err))
	}
}

func (m Model) cancel() Model {
	m.mode = modeBrowse
	m.pendingName = ""
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
	return m
}

// refresh reloads list rows from the store and selects sel when valid.
func (m *Model) refresh(sel int) {
	items := m.store.Items()
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, listItem{item: it, category: m.store.Catalog().Name(it.CategoryID)})
	}
	m.list.SetItems(rows)
	m.list.Title = fmt.Sprintf("Shopping list  %d", len(items))
	if sel >= len(rows) {
		sel = len(rows) - 1
	}
	if sel >= 0 {
		m.list.Select(sel)
	}
}

func (m *Model) resize() {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	listHeight := h - 4
	switch m.mode {
	case modeAddName, modeConfirmDelete:
		listHeight = h - 8
	case modeAddCategory:
		listHeight = h - 6 - len(m.store.Catalog().Categories())
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(w-4, listHeight)
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	if len(m.list.Items()) == 0 && m.mode == modeBrowse {
		b.WriteString(t.Title.Render("Shopping list") + "\n\n")
		b.WriteString(t.Muted.Render(ui.MsgEmptyList) + "\n\n")
		b.WriteString(t.Muted.Render("a add • q quit"))
	} else {
		b.WriteString(m.list.View())
	}

	box := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
	switch m.mode {
	case modeAddName:
		b.WriteString("\n" + box.Render("Add new item\n"+m.input.View()))
	case modeAddCategory:
		lines := []string{fmt.Sprintf("Category for %q", m.pendingName)}
		for i, c := range m.store.Catalog().Categories() {
			if i == m.catCursor {
				lines = append(lines, t.Selected.Render(t.Cursor+c.Name))
			} else {
				lines = append(lines, "  "+c.Name)
			}
		}
		lines = append(lines, t.Muted.Render("↑/↓ choose • enter add • esc back"))
		b.WriteString("\n" + box.Render(strings.Join(lines, "\n")))
	case modeConfirmDelete:
		name := ""
		if li, ok := m.list.SelectedItem().(listItem); ok {
			name = li.item.ItemName
		}
		b.WriteString("\n" + box.Render(
			t.Warning.Render(ui.MsgConfirmTitle)+"\n"+
				fmt.Sprintf("%s (%s)\n", ui.MsgConfirmText, name)+
				t.Muted.Render("y delete • n cancel")))
	}

	if m.status != "" {
		style := t.Success
		if m.statusErr {
			style = t.Error
		}
		b.WriteString("\n" + style.Render(m.status))
	}
	return ui.PanelString([]string{b.String()})
}
