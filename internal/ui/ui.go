package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/roosthq/roost/internal/collection"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FarmListView ViewState = iota
	FacilityListView
	ChickenListView
	MatrixView
	WatchView
)

// maxLiveEvents bounds the watch view's scrollback.
const maxLiveEvents = 100

// WatchFunc opens a live event stream for a facility. The returned stop
// function tears the stream down.
type WatchFunc func(ctx context.Context, facilityID string) (<-chan models.FacilityEvent, func(), error)

// pendingToggle holds a matrix cell awaiting the user's confirmation.
type pendingToggle struct {
	userID   string
	roleID   string
	userName string
	roleName string
	adding   bool
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	farm      *services.FarmService
	directory *services.DirectoryService
	watch     WatchFunc

	width  int
	height int

	farmList        list.Model
	facilityList    list.Model
	chickenList     list.Model
	currentFarm     models.Farm
	currentFacility models.Facility

	matrix  *services.Matrix
	row     int
	col     int
	pending *pendingToggle

	watchEvents <-chan models.FacilityEvent
	watchStop   func()
	liveEvents  []models.FacilityEvent

	notice string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, farm *services.FarmService, directory *services.DirectoryService, watch WatchFunc) *Model {
	return &Model{
		ctx:       ctx,
		view:      FarmListView,
		farm:      farm,
		directory: directory,
		watch:     watch,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching the farm list.
func (m *Model) Init() tea.Cmd {
	return m.fetchFarms()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.farmList, &m.facilityList, &m.chickenList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FarmListView:
			return m.handleFarmListKeys(msg)
		case FacilityListView:
			return m.handleFacilityListKeys(msg)
		case ChickenListView:
			return m.handleChickenListKeys(msg)
		case MatrixView:
			return m.handleMatrixKeys(msg)
		case WatchView:
			return m.handleWatchKeys(msg)
		}

	case farmsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.farms))
		for i, f := range msg.farms {
			items[i] = farmItem{farm: f}
		}
		m.farmList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.farmList.Title = "Farms"
		m.farmList.SetSize(m.width-4, m.height-8)
		return m, nil

	case facilitiesFetchedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("failed to load facilities: %v", msg.err)
			return m, nil
		}
		m.currentFarm = msg.farm
		items := make([]list.Item, len(msg.facilities))
		for i, f := range msg.facilities {
			items[i] = facilityItem{facility: f}
		}
		m.facilityList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.facilityList.Title = fmt.Sprintf("Facilities at '%s'", msg.farm.Name)
		m.facilityList.SetSize(m.width-4, m.height-8)
		m.view = FacilityListView
		m.notice = ""
		return m, nil

	case chickensFetchedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("failed to load birds: %v", msg.err)
			return m, nil
		}
		m.currentFacility = msg.facility
		items := make([]list.Item, len(msg.chickens))
		for i, c := range msg.chickens {
			items[i] = chickenItem{chicken: c}
		}
		m.chickenList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.chickenList.Title = fmt.Sprintf("Birds in '%s'", msg.facility.Name)
		m.chickenList.SetSize(m.width-4, m.height-8)
		m.view = ChickenListView
		m.notice = ""
		return m, nil

	case matrixFetchedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("failed to load role matrix: %v", msg.err)
			return m, nil
		}
		m.matrix = msg.matrix
		m.row, m.col = 0, 0
		m.pending = nil
		m.view = MatrixView
		m.notice = ""
		return m, nil

	case toggleDoneMsg:
		switch {
		case msg.err == nil && msg.on:
			m.notice = ""
			return m, tea.Tick(900*time.Millisecond, func(t time.Time) tea.Msg {
				return flashTickMsg(t)
			})
		case msg.err == nil:
			m.notice = ""
		case errors.Is(msg.err, collection.ErrCellBusy):
			m.notice = "cell request still in flight"
		default:
			m.notice = fmt.Sprintf("toggle failed: %v", msg.err)
		}
		return m, nil

	case flashTickMsg:
		return m, nil

	case liveEventMsg:
		m.liveEvents = append(m.liveEvents, models.FacilityEvent(msg))
		if len(m.liveEvents) > maxLiveEvents {
			m.liveEvents = m.liveEvents[len(m.liveEvents)-maxLiveEvents:]
		}
		return m, m.waitForEvent()

	case watchClosedMsg:
		m.notice = "live channel closed"
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case FarmListView:
		body = m.renderFarmList()
	case FacilityListView:
		body = m.renderFacilityList()
	case ChickenListView:
		body = m.renderChickenList()
	case MatrixView:
		body = m.renderMatrix()
	case WatchView:
		body = m.renderWatch()
	}

	if m.notice != "" {
		body = fmt.Sprintf("%s\n\n%s", body, styles.warn.Render(m.notice))
	}
	return body
}

func (m *Model) handleFarmListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.matrix):
		return m, m.fetchMatrix()
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.farmList.SelectedItem().(farmItem); ok {
			return m, m.fetchFacilities(selected.farm)
		}
	}

	var cmd tea.Cmd
	m.farmList, cmd = m.farmList.Update(msg)
	return m, cmd
}

func (m *Model) handleFacilityListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FarmListView
		return m, nil
	case key.Matches(msg, m.keys.watch):
		if selected, ok := m.facilityList.SelectedItem().(facilityItem); ok {
			return m.startWatch(selected.facility)
		}
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.facilityList.SelectedItem().(facilityItem); ok {
			return m, m.fetchChickens(selected.facility)
		}
	}

	var cmd tea.Cmd
	m.facilityList, cmd = m.facilityList.Update(msg)
	return m, cmd
}

func (m *Model) handleChickenListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FacilityListView
		return m, nil
	}

	var cmd tea.Cmd
	m.chickenList, cmd = m.chickenList.Update(msg)
	return m, cmd
}

func (m *Model) handleMatrixKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.yes):
			pending := m.pending
			m.pending = nil
			return m, m.toggleCell(pending.userID, pending.roleID)
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.pending = nil
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FarmListView
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.down):
		if m.row < len(m.matrix.Users)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.right):
		if m.col < len(m.matrix.Roles)-1 {
			m.col++
		}
	case key.Matches(msg, m.keys.toggle):
		if len(m.matrix.Users) == 0 || len(m.matrix.Roles) == 0 {
			return m, nil
		}
		user := m.matrix.Users[m.row]
		role := m.matrix.Roles[m.col]
		if m.matrix.Toggle.Busy(user.ID, role.ID) {
			m.notice = "cell request still in flight"
			return m, nil
		}
		m.pending = &pendingToggle{
			userID:   user.ID,
			roleID:   role.ID,
			userName: user.Name,
			roleName: role.Name,
			adding:   !m.matrix.Toggle.Has(user.ID, role.ID),
		}
	}
	return m, nil
}

func (m *Model) handleWatchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopWatch()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.stopWatch()
		m.view = FacilityListView
		m.notice = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FarmListView:
		m.farmList, cmd = m.farmList.Update(msg)
	case FacilityListView:
		m.facilityList, cmd = m.facilityList.Update(msg)
	case ChickenListView:
		m.chickenList, cmd = m.chickenList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchFarms() tea.Cmd {
	return func() tea.Msg {
		farms, err := m.farm.Farms(m.ctx, nil)
		return farmsFetchedMsg{farms: farms, err: err}
	}
}

func (m *Model) fetchFacilities(farm models.Farm) tea.Cmd {
	return func() tea.Msg {
		facilities, err := m.farm.Facilities(m.ctx, url.Values{"farmId": {farm.ID}})
		return facilitiesFetchedMsg{farm: farm, facilities: facilities, err: err}
	}
}

func (m *Model) fetchChickens(facility models.Facility) tea.Cmd {
	return func() tea.Msg {
		chickens, err := m.farm.Chickens(m.ctx, url.Values{"facilityId": {facility.ID}})
		return chickensFetchedMsg{facility: facility, chickens: chickens, err: err}
	}
}

func (m *Model) fetchMatrix() tea.Cmd {
	return func() tea.Msg {
		matrix, err := m.directory.LoadMatrix(m.ctx)
		return matrixFetchedMsg{matrix: matrix, err: err}
	}
}

func (m *Model) toggleCell(userID, roleID string) tea.Cmd {
	return func() tea.Msg {
		on, err := m.matrix.Toggle.Toggle(m.ctx, userID, roleID)
		return toggleDoneMsg{userID: userID, roleID: roleID, on: on, err: err}
	}
}

func (m *Model) startWatch(facility models.Facility) (tea.Model, tea.Cmd) {
	if m.watch == nil {
		m.notice = "live channel not configured"
		return m, nil
	}

	events, stop, err := m.watch(m.ctx, facility.ID)
	if err != nil {
		m.notice = fmt.Sprintf("failed to open live channel: %v", err)
		return m, nil
	}

	m.currentFacility = facility
	m.watchEvents = events
	m.watchStop = stop
	m.liveEvents = nil
	m.view = WatchView
	m.notice = ""
	return m, m.waitForEvent()
}

func (m *Model) stopWatch() {
	if m.watchStop != nil {
		m.watchStop()
		m.watchStop = nil
		m.watchEvents = nil
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.watchEvents
	return func() tea.Msg {
		if events == nil {
			return watchClosedMsg{}
		}
		event, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return liveEventMsg(event)
	}
}

func (m *Model) renderFarmList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.matrix, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.farmList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderFacilityList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.watch, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.facilityList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderChickenList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.chickenList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderMatrix() string {
	if m.matrix == nil {
		return "Loading role matrix..."
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("User Roles"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%-20s", ""))
	for _, role := range m.matrix.Roles {
		b.WriteString(fmt.Sprintf("%-12s", truncate(role.Name, 10)))
	}
	b.WriteString("\n")

	now := time.Now()
	for r, user := range m.matrix.Users {
		b.WriteString(fmt.Sprintf("%-20s", truncate(user.Name, 18)))
		for c, role := range m.matrix.Roles {
			cell := m.renderCell(user.ID, role.ID, now)
			if r == m.row && c == m.col {
				cell = styles.cursor.Render(cell)
			}
			b.WriteString(fmt.Sprintf("%-12s", cell))
		}
		b.WriteString("\n")
	}

	if m.pending != nil {
		verb := "Grant"
		if !m.pending.adding {
			verb = "Revoke"
		}
		prompt := fmt.Sprintf("%s '%s' for %s? (y/n)", verb, m.pending.roleName, m.pending.userName)
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(prompt))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.back, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderCell(userID, roleID string, now time.Time) string {
	switch {
	case m.matrix.Toggle.Busy(userID, roleID):
		return "[*]"
	case m.matrix.Toggle.Flashing(userID, roleID, now):
		return styles.ok.Render("[✓]")
	case m.matrix.Toggle.Has(userID, roleID):
		return "[x]"
	default:
		return "[ ]"
	}
}

func (m *Model) renderWatch() string {
	title := styles.title.Render(fmt.Sprintf("Live: %s", m.currentFacility.Name))

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	if len(m.liveEvents) == 0 {
		b.WriteString(styles.help.Render("Waiting for events..."))
	}

	start := 0
	if visible := m.height - 8; visible > 0 && len(m.liveEvents) > visible {
		start = len(m.liveEvents) - visible
	}
	for _, event := range m.liveEvents[start:] {
		stamp := event.At.Format("15:04:05")
		switch event.Type {
		case "log":
			b.WriteString(fmt.Sprintf("%s  %s\n", stamp, event.Message))
		case "update":
			parts := make([]string, 0, len(event.Fields))
			for k, v := range event.Fields {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			b.WriteString(fmt.Sprintf("%s  %s\n", stamp, styles.ok.Render(strings.Join(parts, " "))))
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
