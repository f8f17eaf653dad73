// Package tui is the single-screen inventory form: two inputs, a submit key,
// a transient notice line and the rendered inventory.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/core/service"
)

const (
	fieldProduct = iota
	fieldQuantity
	fieldCount
)

const title = "Inventory"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).MarginLeft(2).MarginBottom(1)
	inputStyle     = lipgloss.NewStyle().PaddingLeft(2)
	noticeStyle    = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	inventoryStyle = lipgloss.NewStyle().MarginLeft(2).Padding(0, 1).Border(lipgloss.RoundedBorder())
	helpStyle      = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("241"))
)

// InventoryService is the part of the service the form drives.
type InventoryService interface {
	Submit(ctx context.Context, sub domain.Submission) (domain.Result, error)
	Render(ctx context.Context) (string, error)
}

type clearNoticeMsg struct {
	seq int
}

type Model struct {
	ctx context.Context
	svc InventoryService

	inputs []textinput.Model
	focus  int

	display   string
	notice    string
	noticeSeq int
	noticeTTL time.Duration

	err      error
	quitting bool
}

// NewModel loads the current inventory so the first frame already shows it.
func NewModel(ctx context.Context, svc InventoryService, noticeTTL time.Duration) (Model, error) {
	display, err := svc.Render(ctx)
	if err != nil {
		return Model{}, err
	}

	product := textinput.New()
	product.Prompt = "product:  "
	product.Placeholder = "apples"
	product.CharLimit = 64
	product.Width = 32
	product.Focus()

	quantity := textinput.New()
	quantity.Prompt = "quantity: "
	quantity.Placeholder = "0"
	quantity.CharLimit = 9
	quantity.Width = 12

	return Model{
		ctx:       ctx,
		svc:       svc,
		inputs:    []textinput.Model{product, quantity},
		focus:     fieldProduct,
		display:   display,
		noticeTTL: noticeTTL,
	}, nil
}

// Err is the fatal error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab", "down":
			cmd := m.setFocus((m.focus + 1) % fieldCount)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, cmd
		case "enter":
			if m.focus == fieldProduct {
				cmd := m.setFocus(fieldQuantity)
				return m, cmd
			}
			return m.submit()
		}

		// the quantity field is numeric
		if m.focus == fieldQuantity && msg.Type == tea.KeyRunes && !digitsOnly(msg.Runes) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(inputStyle.Render(in.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(noticeStyle.Render(m.notice))
	b.WriteString("\n")
	b.WriteString(inventoryStyle.Render(m.display))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • enter: add • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	res, err := m.svc.Submit(m.ctx, domain.Submission{
		Product:  m.inputs[fieldProduct].Value(),
		Quantity: m.inputs[fieldQuantity].Value(),
	})
	if err != nil {
		if notice := service.Notice(err); notice != "" {
			cmd := m.showNotice(notice)
			return m, cmd
		}
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	m.inputs[fieldProduct].Reset()
	m.inputs[fieldQuantity].Reset()
	m.display = res.Display

	focusCmd := m.setFocus(fieldProduct)
	noticeCmd := m.showNotice(res.Notice)
	return m, tea.Batch(focusCmd, noticeCmd)
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) showNotice(notice string) tea.Cmd {
	m.noticeSeq++
	m.notice = notice

	seq := m.noticeSeq
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func digitsOnly(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
