package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/contactdesk/contactdesk/internal/client"
	"github.com/contactdesk/contactdesk/internal/contacts"
)

const requestTimeout = 15 * time.Second

// mode tracks which part of the UI owns keyboard input.
type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// formFields in tab order.
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldMessage
	formFieldCount
)

// Messages produced by gateway commands.
type (
	contactsLoadedMsg []*contacts.Contact
	contactCreatedMsg *contacts.Contact
	contactDeletedMsg string
	requestFailedMsg  struct{ err error }
)

// Model is the terminal single-page UI: a searchable, sortable contact
// table, a create form, and a confirm-delete modal.
type Model struct {
	gateway *client.Client

	list  ListState
	table table.Model

	search textinput.Model

	form       [formFieldCount]textinput.Model
	formErrors map[string]string
	formFocus  int

	pendingDelete *contacts.Contact

	mode       mode
	loading    bool
	submitting bool
	deleting   bool
	status     string
	statusErr  bool

	width  int
	height int

	styles Styles
}

// NewModel builds the UI around an API gateway.
func NewModel(gateway *client.Client) Model {
	t := table.New(
		table.WithColumns(tableColumns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	search := textinput.New()
	search.Placeholder = "Search by name, email or phone..."
	search.CharLimit = 100
	search.Width = 40

	var form [formFieldCount]textinput.Model
	for i := range form {
		fi := textinput.New()
		fi.CharLimit = 500
		fi.Width = 40
		form[i] = fi
	}
	form[fieldName].Placeholder = "Name"
	form[fieldName].CharLimit = 100
	form[fieldEmail].Placeholder = "Email"
	form[fieldPhone].Placeholder = "Phone"
	form[fieldPhone].CharLimit = 30
	form[fieldMessage].Placeholder = "Message (optional)"

	return Model{
		gateway:    gateway,
		list:       NewListState(),
		table:      t,
		search:     search,
		form:       form,
		formErrors: map[string]string{},
		mode:       modeBrowse,
		loading:    true,
		styles:     DefaultStyles(),
	}
}

// Init triggers the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchContacts()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(5, msg.Height-12))
		return m, nil

	case contactsLoadedMsg:
		m.loading = false
		m.list.Replace(msg)
		m.refreshRows()
		return m, nil

	case contactCreatedMsg:
		m.submitting = false
		m.list.Prepend(msg)
		m.refreshRows()
		m.resetForm()
		m.mode = modeBrowse
		m.setStatus(fmt.Sprintf("%s has been added to your contacts", msg.Name), false)
		return m, nil

	case contactDeletedMsg:
		m.deleting = false
		m.pendingDelete = nil
		m.list.Remove(string(msg))
		m.refreshRows()
		m.mode = modeBrowse
		m.setStatus("Contact deleted successfully", false)
		return m, nil

	case requestFailedMsg:
		m.loading = false
		m.submitting = false
		m.deleting = false
		m.mode = modeBrowse
		m.pendingDelete = nil
		m.setStatus(errorText(msg.err), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink
	case "n":
		m.mode = modeForm
		m.formFocus = fieldName
		m.form[fieldName].Focus()
		return m, textinput.Blink
	case "r":
		m.loading = true
		m.setStatus("Refreshing contacts...", false)
		return m, m.fetchContacts()
	case "d":
		if m.deleting {
			return m, nil
		}
		if c := m.selectedContact(); c != nil {
			m.pendingDelete = c
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "1":
		m.toggleSort(contacts.SortFieldName)
		return m, nil
	case "2":
		m.toggleSort(contacts.SortFieldEmail)
		return m, nil
	case "3":
		m.toggleSort(contacts.SortFieldCreatedAt)
		return m, nil
	case "esc":
		if m.status != "" {
			m.status = ""
			return m, nil
		}
		if m.list.Search != "" {
			m.list.Search = ""
			m.search.SetValue("")
			m.refreshRows()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeBrowse
		m.search.Blur()
		if msg.String() == "esc" {
			m.search.SetValue("")
			m.list.Search = ""
			m.refreshRows()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.list.Search {
		m.list.Search = m.search.Value()
		m.refreshRows()
	}
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.resetForm()
		m.mode = modeBrowse
		return m, nil
	case "tab", "down":
		return m.focusFormField((m.formFocus + 1) % formFieldCount), nil
	case "shift+tab", "up":
		return m.focusFormField((m.formFocus + formFieldCount - 1) % formFieldCount), nil
	case "enter":
		if m.submitting {
			return m, nil
		}
		req := m.formRequest()
		m.formErrors = fieldErrors(req)
		if len(m.formErrors) > 0 {
			return m, nil
		}
		m.submitting = true
		return m, m.createContact(req)
	}

	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.deleting || m.pendingDelete == nil {
			return m, nil
		}
		m.deleting = true
		return m, m.deleteContact(m.pendingDelete.ID)
	case "n", "esc":
		m.pendingDelete = nil
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

// View renders the whole page.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Contact Manager"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Organize and manage your contacts"))
	b.WriteString("\n\n")

	searchLabel := "Search"
	if m.mode == modeSearch {
		searchLabel = "Search (enter to apply, esc to clear)"
	}
	b.WriteString(m.styles.Label.Render(searchLabel))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	if m.list.Search != "" {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %d found", len(m.list.Visible()))))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render("Loading contacts..."))
	case len(m.list.Visible()) == 0:
		b.WriteString(m.styles.Muted.Render("No contacts to show."))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.formView())
	case modeConfirmDelete:
		b.WriteString(m.confirmView())
	default:
		b.WriteString(m.styles.Help.Render("n new · d delete · / search · r refresh · 1/2/3 sort · q quit"))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.status))
		} else {
			b.WriteString(m.styles.Success.Render(m.status))
		}
		b.WriteString(m.styles.Help.Render("  (esc to dismiss)"))
	}

	return m.styles.Page.Render(b.String())
}

func (m Model) formView() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("New contact (enter to save, esc to cancel)"))
	b.WriteString("\n")

	fields := [formFieldCount]string{"name", "email", "phone", "message"}
	for i := 0; i < formFieldCount; i++ {
		b.WriteString(m.form[i].View())
		if msg, ok := m.formErrors[fields[i]]; ok {
			b.WriteString("  ")
			b.WriteString(m.styles.Error.Render(msg))
		}
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString(m.styles.Muted.Render("Saving..."))
	}
	return b.String()
}

func (m Model) confirmView() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.Name
	}
	text := fmt.Sprintf("Delete %q? y to confirm, esc to cancel", name)
	if m.deleting {
		text = "Deleting..."
	}
	return m.styles.Modal.Render(text)
}

// Commands.

func (m Model) fetchContacts() tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := gw.List(ctx, contacts.DefaultSort, contacts.DefaultLimit)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return contactsLoadedMsg(list)
	}
}

func (m Model) createContact(req *contacts.CreateContactRequest) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		created, err := gw.Create(ctx, req)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return contactCreatedMsg(created)
	}
}

func (m Model) deleteContact(id string) tea.Cmd {
	gw := m.gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := gw.Delete(ctx, id); err != nil {
			return requestFailedMsg{err: err}
		}
		return contactDeletedMsg(id)
	}
}

// Helpers.

func (m *Model) toggleSort(field string) {
	m.list.ToggleSort(field)
	m.refreshRows()
}

// refreshRows recomputes the derived view whenever the list, search term
// or sort spec changes.
func (m *Model) refreshRows() {
	visible := m.list.Visible()
	rows := make([]table.Row, len(visible))
	for i, c := range visible {
		rows[i] = table.Row{c.Name, c.Email, c.Phone, c.CreatedAt.Local().Format("2006-01-02 15:04")}
	}
	m.table.SetRows(rows)
	m.table.SetColumns(m.columnsWithSortMarker())
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) selectedContact() *contacts.Contact {
	visible := m.list.Visible()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(visible) {
		return nil
	}
	return visible[cursor]
}

func (m Model) formRequest() *contacts.CreateContactRequest {
	return &contacts.CreateContactRequest{
		Name:    m.form[fieldName].Value(),
		Email:   m.form[fieldEmail].Value(),
		Phone:   m.form[fieldPhone].Value(),
		Message: m.form[fieldMessage].Value(),
	}
}

func (m Model) focusFormField(i int) Model {
	m.form[m.formFocus].Blur()
	m.formFocus = i
	m.form[i].Focus()
	return m
}

func (m *Model) resetForm() {
	for i := range m.form {
		m.form[i].SetValue("")
		m.form[i].Blur()
	}
	m.formErrors = map[string]string{}
	m.formFocus = fieldName
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// fieldErrors runs the shared validators the server enforces, so a
// request that passes here only fails server-side in a race.
func fieldErrors(req *contacts.CreateContactRequest) map[string]string {
	err := req.Validate()
	if err == nil {
		return map[string]string{}
	}
	if verr, ok := err.(*contacts.ValidationError); ok {
		return verr.Fields
	}
	return map[string]string{"name": err.Error()}
}

// errorText prefers the server-provided message, falling back to the
// transport error.
func errorText(err error) string {
	if apiErr, ok := err.(*client.APIError); ok {
		return apiErr.Message
	}
	return "Request failed: " + err.Error()
}

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Email", Width: 28},
		{Title: "Phone", Width: 18},
		{Title: "Added", Width: 17},
	}
}

// columnsWithSortMarker annotates the active sort column.
func (m Model) columnsWithSortMarker() []table.Column {
	cols := tableColumns()
	marker := " ▲"
	if !m.list.SortAsc {
		marker = " ▼"
	}
	switch m.list.SortField {
	case contacts.SortFieldName:
		cols[0].Title += marker
	case contacts.SortFieldEmail:
		cols[1].Title += marker
	case contacts.SortFieldCreatedAt:
		cols[3].Title += marker
	}
	return cols
}
