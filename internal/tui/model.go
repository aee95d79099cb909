// Package tui is the interactive catalog browser.
package tui

import (
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"hangar/internal/catalog"
	"hangar/internal/config"
	"hangar/internal/debug"
	"hangar/internal/launch"
)

// ViewState represents the current UI view.
type ViewState int

const (
	StateBrowse ViewState = iota
	StateHistory
	StateConfirmDelete
)

// Tabs before the per-category ones.
const (
	tabAll = iota
	tabFavorites
	fixedTabs
)

// lastTabSetting remembers the active tab between runs.
const lastTabSetting = "browser.lastTab"

// configChangedMsg arrives when the config watcher reports a change.
type configChangedMsg struct{}

// Model implements tea.Model for the catalog browser.
type Model struct {
	store    *catalog.Store
	cfg      *config.Manager
	launcher *launch.Launcher
	watch    <-chan struct{}

	state  ViewState
	width  int
	height int

	list         list.Model
	keys         *listKeyMap
	delegateKeys *delegateKeyMap

	tabs      []string
	activeTab int

	historyList list.Model

	confirmTarget *catalog.TUI

	// Attached launch chosen in the browser; performed by the entry
	// point after the program has released the terminal.
	pending *catalog.TUI
}

// NewModel creates the browser model. watch may be nil when config
// watching is unavailable.
func NewModel(store *catalog.Store, cfg *config.Manager, launcher *launch.Launcher, watch <-chan struct{}) (*Model, error) {
	m := &Model{
		store:    store,
		cfg:      cfg,
		launcher: launcher,
		watch:    watch,
		state:    StateBrowse,
	}

	keys := cfg.Get().Keys
	m.keys = newListKeyMap(keys)
	m.delegateKeys = newDelegateKeyMap(keys)

	if err := m.rebuildTabs(); err != nil {
		return nil, err
	}
	m.restoreLastTab()
	m.setupList()
	m.setupHistoryList()

	return m, nil
}

// Pending returns the target chosen for an attached launch, if any.
func (m *Model) Pending() *catalog.TUI { return m.pending }

func (m *Model) rebuildTabs() error {
	cats, err := m.store.ListCategories()
	if err != nil {
		return err
	}
	m.tabs = []string{"All", "Favorites"}
	for _, c := range cats {
		m.tabs = append(m.tabs, c.Name)
	}
	if m.activeTab >= len(m.tabs) {
		m.activeTab = 0
	}
	return nil
}

func (m *Model) restoreLastTab() {
	if !m.cfg.Get().Behavior.RememberLastTab {
		return
	}
	name, err := m.store.GetSetting(lastTabSetting)
	if err != nil || name == "" {
		return
	}
	for i, tab := range m.tabs {
		if tab == name {
			m.activeTab = i
			return
		}
	}
}

func (m *Model) saveLastTab() {
	if !m.cfg.Get().Behavior.RememberLastTab {
		return
	}
	if err := m.store.SetSetting(lastTabSetting, m.tabs[m.activeTab]); err != nil {
		debug.Log(debug.TUI, "saving last tab: %v", err)
	}
}

func (m *Model) setupList() {
	delegate := list.NewDefaultDelegate()
	delegate.UpdateFunc = m.delegateUpdate
	delegate.ShortHelpFunc = func() []key.Binding { return m.delegateKeys.ShortHelp() }
	delegate.FullHelpFunc = func() [][]key.Binding { return m.delegateKeys.FullHelp() }

	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipglossWhite).
		BorderLeftForeground(lipglossAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipglossGrey).
		BorderLeftForeground(lipglossAccent)

	l := list.New(m.loadItems(), delegate, 0, 0)
	l.Title = "hangar"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("program", "programs")
	// The stock paging bindings include letters (h/l/f/d/b/u) that
	// shadow the entry hotkeys: the list flips the page before the
	// delegate reads the selection, so the action lands a page away.
	// Keep paging on the dedicated keys only.
	l.KeyMap.PrevPage = key.NewBinding(
		key.WithKeys("left", "pgup"),
		key.WithHelp("←/pgup", "prev page"),
	)
	l.KeyMap.NextPage = key.NewBinding(
		key.WithKeys("right", "pgdown"),
		key.WithHelp("→/pgdn", "next page"),
	)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.nextTab}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{m.keys.nextTab, m.keys.prevTab}
	}

	m.list = l
}

func (m *Model) setupHistoryList() {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipglossWhite).
		BorderLeftForeground(lipglossAccent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipglossGrey).
		BorderLeftForeground(lipglossAccent)

	l := list.New(nil, delegate, 0, 0)
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("launch", "launches")

	m.historyList = l
}

// loadItems reads the entries for the active tab from the store.
func (m *Model) loadItems() []list.Item {
	var f catalog.Filter
	switch {
	case m.activeTab == tabFavorites:
		f.FavoritesOnly = true
	case m.activeTab >= fixedTabs:
		f.Category = m.tabs[m.activeTab]
	}

	tuis, err := m.store.List(f)
	if err != nil {
		debug.Log(debug.TUI, "listing entries: %v", err)
		return nil
	}

	showDesc := m.cfg.Get().UI.ShowDescriptions
	items := make([]list.Item, len(tuis))
	for i, t := range tuis {
		items[i] = item{tui: t, showDesc: showDesc}
	}
	return items
}

// reloadInto refreshes the given list in place, keeping the cursor.
func (m *Model) reloadInto(lm *list.Model) tea.Cmd {
	idx := lm.Index()
	cmd := lm.SetItems(m.loadItems())
	if idx < len(lm.Items()) {
		lm.Select(idx)
	}
	return cmd
}

func (m *Model) waitForConfig() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return configChangedMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForConfig()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		// Two lines above the browse list for the category tab bar
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		m.historyList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case configChangedMsg:
		return m, m.applyConfigChange()

	case tea.KeyMsg:
		switch m.state {
		case StateBrowse:
			return m.updateBrowse(msg)
		case StateHistory:
			return m.updateHistory(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHistory:
		m.historyList, cmd = m.historyList.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// applyConfigChange reloads the config file and re-applies the pieces
// the browser uses live: hotkeys and launch preferences.
func (m *Model) applyConfigChange() tea.Cmd {
	if err := m.cfg.Load(); err != nil {
		debug.Log(debug.CONFIG, "reload failed: %v", err)
		return m.waitForConfig()
	}

	keys := m.cfg.Get().Keys
	*m.keys = *newListKeyMap(keys)
	*m.delegateKeys = *newDelegateKeyMap(keys)

	debug.Log(debug.CONFIG, "config reloaded")
	return tea.Batch(
		m.waitForConfig(),
		m.reloadInto(&m.list),
		m.list.NewStatusMessage(statusMessageStyle.Render("Config reloaded")),
	)
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys go to the filter input while filtering
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.nextTab):
		return m, m.switchTab(1)

	case key.Matches(msg, m.keys.prevTab):
		return m, m.switchTab(-1)

	case msg.String() == "q", msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(delta int) tea.Cmd {
	n := len(m.tabs)
	m.activeTab = (m.activeTab + delta + n) % n
	m.saveLastTab()
	cmd := m.list.SetItems(m.loadItems())
	m.list.ResetSelected()
	return cmd
}

// delegateUpdate handles the per-entry keys. lm is the list instance the
// bubbles machinery is updating, which is not yet m.list.
func (m *Model) delegateUpdate(msg tea.Msg, lm *list.Model) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	sel, ok := lm.SelectedItem().(item)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.delegateKeys.launch):
		t := sel.tui
		m.pending = &t
		debug.Log(debug.TUI, "attached launch pending: %s", t.Name)
		return tea.Quit

	case key.Matches(keyMsg, m.delegateKeys.detach):
		return m.launchDetached(lm, sel.tui)

	case key.Matches(keyMsg, m.delegateKeys.favorite):
		if err := m.store.SetFavorite(sel.tui.ID, !sel.tui.Favorite); err != nil {
			return lm.NewStatusMessage(errorMessageStyle.Render("Error: " + err.Error()))
		}
		return m.reloadInto(lm)

	case key.Matches(keyMsg, m.delegateKeys.yank):
		if err := clipboard.WriteAll(sel.CommandLine()); err != nil {
			return lm.NewStatusMessage(errorMessageStyle.Render("Clipboard: " + err.Error()))
		}
		return lm.NewStatusMessage(statusMessageStyle.Render("Copied " + sel.CommandLine()))

	case key.Matches(keyMsg, m.delegateKeys.history):
		return m.openHistory(lm, sel.tui)

	case key.Matches(keyMsg, m.delegateKeys.delete):
		t := sel.tui
		if m.cfg.Get().Behavior.ConfirmDelete {
			m.confirmTarget = &t
			m.state = StateConfirmDelete
			return nil
		}
		return m.deleteTarget(lm, t)
	}
	return nil
}

// launchDetached fires the target off in a new terminal window and stays
// in the browser. On success the cursor advances to the next entry.
func (m *Model) launchDetached(lm *list.Model, t catalog.TUI) tea.Cmd {
	out := m.launcher.Launch(
		launch.Target{ID: t.ID, Command: t.Command, Args: t.Args, Dir: t.WorkingDir},
		launch.Options{Terminal: m.cfg.Get().Launch.Terminal},
	)
	if !out.Success {
		return lm.NewStatusMessage(errorMessageStyle.Render("Launch failed: " + out.Error))
	}

	lm.CursorDown()
	return tea.Batch(
		m.reloadInto(lm),
		lm.NewStatusMessage(statusMessageStyle.Render("Launched "+t.Name)),
	)
}

func (m *Model) deleteTarget(lm *list.Model, t catalog.TUI) tea.Cmd {
	if err := m.store.Delete(t.ID); err != nil {
		return lm.NewStatusMessage(errorMessageStyle.Render("Error: " + err.Error()))
	}
	return tea.Batch(
		m.reloadInto(lm),
		lm.NewStatusMessage(statusMessageStyle.Render("Removed "+t.Name)),
	)
}

func (m *Model) openHistory(lm *list.Model, t catalog.TUI) tea.Cmd {
	limit := m.cfg.Get().UI.HistoryLimit
	recs, err := m.store.History(t.ID, limit)
	if err != nil {
		return lm.NewStatusMessage(errorMessageStyle.Render("Error: " + err.Error()))
	}

	items := make([]list.Item, len(recs))
	for i, r := range recs {
		items[i] = historyItem{rec: r, name: t.Name}
	}
	cmd := m.historyList.SetItems(items)
	m.historyList.Title = "History: " + t.Name +
		" (" + strconv.Itoa(t.LaunchCount) + " attempts)"
	m.historyList.ResetSelected()
	m.state = StateHistory
	return cmd
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h":
		m.state = StateBrowse
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		t := m.confirmTarget
		m.confirmTarget = nil
		m.state = StateBrowse
		if t == nil {
			return m, nil
		}
		return m, m.deleteTarget(&m.list, *t)

	case "n", "esc":
		m.confirmTarget = nil
		m.state = StateBrowse
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() string {
	switch m.state {
	case StateHistory:
		return appStyle.Render(m.historyList.View())
	case StateConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return appStyle.Render(m.viewTabs() + "\n\n" + m.list.View())
	}
}

func (m *Model) viewTabs() string {
	var b strings.Builder
	for i, tab := range m.tabs {
		if i == m.activeTab {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(tabStyle.Render(tab))
		}
	}
	return b.String()
}

func (m *Model) viewConfirmDelete() string {
	listView := dimStyle.Render(m.list.View())

	var d strings.Builder
	d.WriteString(dialogTitleStyle.Render("Delete entry?"))
	d.WriteString("\n\n")
	if m.confirmTarget != nil {
		d.WriteString(dialogLabelStyle.Render("Name:    "))
		d.WriteString(dialogValueStyle.Render(m.confirmTarget.Name))
		d.WriteString("\n")
		d.WriteString(dialogLabelStyle.Render("Command: "))
		d.WriteString(dialogValueStyle.Render(m.confirmTarget.Command))
		d.WriteString("\n\n")
	}
	d.WriteString(dialogLabelStyle.Render("Launch history goes with it."))
	d.WriteString("\n\n")
	d.WriteString(dialogChoiceStyle.Render("y"))
	d.WriteString(dialogLabelStyle.Render(" confirm  "))
	d.WriteString(dialogChoiceStyle.Render("n"))
	d.WriteString(dialogLabelStyle.Render(" cancel"))

	return appStyle.Render(listView + "\n\n" + dialogStyle.Render(d.String()))
}
