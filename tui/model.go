package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/templates"
)

// cuesReloadedMsg carries the project's cue list after another process rewrote it.
type cuesReloadedMsg struct {
	cues []cuesheet.Cue
}

type sheetModel struct {
	ctx   context.Context
	title string
	store *cuesheet.Store
	sheet *cuesheet.Sheet

	reloads <-chan []cuesheet.Cue

	// cursor while no cell is being edited
	row, col int

	// cue waiting for a y/n answer before it is deleted
	confirming string

	width, height int
	status        string
	err           error
}

func newSheetModel(ctx context.Context, title string, store *cuesheet.Store, reloads <-chan []cuesheet.Cue) sheetModel {
	return sheetModel{
		ctx:     ctx,
		title:   title,
		store:   store,
		sheet:   cuesheet.NewSheet(store, nil),
		reloads: reloads,
	}
}

func (m sheetModel) Init() tea.Cmd {
	return m.waitForReload()
}

// waitForReload blocks on the next outside change. A nil channel means nobody watches.
func (m sheetModel) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ctx, reloads := m.ctx, m.reloads
	return func() tea.Msg {
		select {
		case cues := <-reloads:
			return cuesReloadedMsg{cues: cues}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m sheetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case cuesReloadedMsg:
		m.applyReload(msg.cues)
		return m, m.waitForReload()
	case tea.KeyMsg:
		if m.confirming != "" {
			return m.updateConfirm(msg)
		}
		if _, editing := m.sheet.Editing(); editing {
			return m.updateEditing(msg)
		}
		return m.updateIdle(msg)
	}
	return m, nil
}

func (m sheetModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var key cuesheet.Key
	switch msg.Type {
	case tea.KeyEnter:
		key = cuesheet.KeyEnter
	case tea.KeyEsc:
		key = cuesheet.KeyEscape
	case tea.KeyTab:
		key = cuesheet.KeyTab
	case tea.KeyShiftTab:
		key = cuesheet.KeyShiftTab
	case tea.KeyUp:
		key = cuesheet.KeyUp
	case tea.KeyDown:
		key = cuesheet.KeyDown
	case tea.KeyLeft:
		key = cuesheet.KeyLeft
	case tea.KeyRight:
		key = cuesheet.KeyRight
	case tea.KeyBackspace:
		buf := m.sheet.Buffer()
		if buf != "" {
			_, size := utf8.DecodeLastRuneInString(buf)
			m.sheet.SetBuffer(buf[:len(buf)-size])
		}
		return m, nil
	case tea.KeyCtrlU:
		m.sheet.SetBuffer("")
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.sheet.SetBuffer(m.sheet.Buffer() + string(msg.Runes))
		return m, nil
	case tea.KeyCtrlC:
		return m.quit()
	default:
		return m, nil
	}

	m.err = m.sheet.HandleKey(m.ctx, key)
	if m.err != nil {
		log.Debug("Sheet key rejected", "error", m.err)
	}
	m.followSession()
	return m, nil
}

func (m sheetModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.sheet.Rows()
	cols := len(m.sheet.Columns())
	m.err = nil
	m.status = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "up", "k":
		m.row = max(m.row-1, 0)
	case "down", "j":
		m.row = min(m.row+1, max(len(rows)-1, 0))
	case "left", "h", "shift+tab":
		m.col = (m.col - 1 + cols) % cols
	case "right", "l", "tab":
		m.col = (m.col + 1) % cols
	case "enter":
		if len(rows) > 0 {
			m.err = m.sheet.Activate(m.row, m.col)
		}
	case "s":
		key := m.sheet.Columns()[m.col].Key
		m.sheet.RequestSort(key)
		cfg, _ := m.sheet.Sort()
		m.status = fmt.Sprintf("sorted by %s, %s", key, cfg.Direction)
	case "a":
		page := 1
		if len(rows) > 0 {
			page = rows[min(m.row, len(rows)-1)].Page
		}
		c, err := m.store.Add(m.ctx, templates.NewCueTemplate(m.store, page).Draft())
		m.err = err
		if err == nil {
			m.status = fmt.Sprintf("added %s %d", c.Type, c.Number)
			m.moveTo(c.ID)
		}
	case "d", "delete":
		if len(rows) == 0 {
			break
		}
		c := rows[min(m.row, len(rows)-1)]
		if m.store.Settings().ConfirmDelete {
			m.confirming = c.ID
			m.status = fmt.Sprintf("delete %s %d %q? (y/n)", c.Type, c.Number, c.Label)
			break
		}
		m.deleteCue(c)
	case "w":
		if err := m.store.Flush(m.ctx); err != nil {
			m.err = err
		} else {
			m.status = "saved"
		}
	}
	return m, nil
}

func (m sheetModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirming
	m.confirming = ""
	switch msg.String() {
	case "y", "Y":
		if c, ok := m.store.Get(id); ok {
			m.deleteCue(c)
		} else {
			m.status = ""
		}
	case "ctrl+c":
		return m.quit()
	default:
		m.status = "delete cancelled"
	}
	return m, nil
}

func (m *sheetModel) deleteCue(c cuesheet.Cue) {
	if _, err := m.store.Delete(m.ctx, c.ID); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("deleted %s %d", c.Type, c.Number)
	m.row = min(m.row, max(m.store.Len()-1, 0))
}

// applyReload takes in cues another process saved. Unsaved local edits win;
// the next save overwrites the outside change.
func (m *sheetModel) applyReload(cues []cuesheet.Cue) {
	same := slices.EqualFunc(cues, m.store.Cues(), func(a, b cuesheet.Cue) bool {
		return reflect.DeepEqual(a, b)
	})
	if same {
		return
	}
	if m.store.Dirty() {
		m.status = "project changed on disk; w saves over it"
		return
	}
	m.store.Reload(cues)
	if cell, editing := m.sheet.Editing(); editing {
		if _, ok := m.store.Get(cell.CueID); !ok {
			m.sheet.Cancel()
		}
	}
	if m.confirming != "" {
		if _, ok := m.store.Get(m.confirming); !ok {
			m.confirming = ""
		}
	}
	m.row = min(m.row, max(m.store.Len()-1, 0))
	if m.confirming == "" {
		m.status = "reloaded changes from disk"
	}
}

func (m *sheetModel) followSession() {
	if cell, editing := m.sheet.Editing(); editing {
		m.row, m.col = cell.Row, cell.Col
	}
}

func (m *sheetModel) moveTo(id string) {
	for i, c := range m.sheet.Rows() {
		if c.ID == id {
			m.row = i
			return
		}
	}
}

// quit saves unsaved changes before leaving.
func (m sheetModel) quit() (tea.Model, tea.Cmd) {
	m.sheet.Cancel()
	if m.store.Dirty() {
		if err := m.store.Flush(m.ctx); err != nil {
			log.Error("Failed to save cues on exit", "error", err)
		}
	}
	return m, tea.Quit
}

func (m sheetModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %d cues", m.store.Len())))
	if cfg, ok := m.sheet.Sort(); ok {
		b.WriteString(statusStyle.Render(fmt.Sprintf("  sort: %s %s", cfg.Key, cfg.Direction)))
	}
	if m.store.Dirty() {
		b.WriteString(statusStyle.Render("  [unsaved]"))
	}
	b.WriteString("\n\n")

	columns := m.sheet.Columns()
	rows := m.sheet.Rows()
	cell, editing := m.sheet.Editing()

	table := make([][]string, len(columns))
	for j, col := range columns {
		table[j] = append(table[j], headerStyle.Render(col.Label))
		for i, c := range rows {
			text := cuesheet.FormatField(c, col.Key)
			if col.Kind == cuesheet.KindColor {
				text = swatch(c.Color) + text
			}
			style := cellStyle
			switch {
			case editing && cell.Row == i && cell.Col == j:
				text, style = m.sheet.Buffer()+"▏", editStyle
			case !editing && m.row == i && m.col == j:
				style = cursorStyle
			}
			table[j] = append(table[j], style.Render(text))
		}
	}
	rendered := make([]string, len(table))
	for j, column := range table {
		rendered[j] = lipgloss.JoinVertical(lipgloss.Left, column...)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	if len(rows) == 0 {
		b.WriteString("\n" + statusStyle.Render("No cues yet. Press a to add one."))
	}
	b.WriteString("\n\n")

	switch {
	case errors.Is(m.err, cuesheet.ErrInvalidValue):
		b.WriteString(errorStyle.Render("rejected: "+m.err.Error()) + "\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	switch {
	case m.confirming != "":
		b.WriteString(footerStyle.Render("y: delete  any other key: keep"))
	case editing:
		b.WriteString(footerStyle.Render("enter: save  esc: cancel  tab/←/→: column  ↑/↓: row"))
	default:
		b.WriteString(footerStyle.Render("enter: edit  s: sort  a: add  d: delete  w: save  q: quit"))
	}
	return b.String()
}
