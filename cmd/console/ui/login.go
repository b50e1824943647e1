package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type LoginModel struct {
	Client   *Client
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	Pending  bool
}

const (
	inputURL = iota
	inputEmail
	inputPassword
)

type loginResultMsg struct{ err error }

func NewLoginModel(c *Client, baseURL string) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputURL] = textinput.New()
	inputs[inputURL].Placeholder = "http://127.0.0.1:5000"
	inputs[inputURL].Prompt = "Server: "
	inputs[inputURL].SetValue(baseURL)
	inputs[inputURL].Focus()

	inputs[inputEmail] = textinput.New()
	inputs[inputEmail].Placeholder = "admin@example.com"
	inputs[inputEmail].Prompt = "Email: "

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].Prompt = "Password: "

	return LoginModel{Client: c, Inputs: inputs}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				if m.Pending {
					return m, nil
				}
				m.Pending = true
				m.Err = nil
				return m, m.loginCmd()
			}
			m.nextInput()
		case tea.KeyTab, tea.KeyDown:
			m.nextInput()
		case tea.KeyShiftTab, tea.KeyUp:
			m.prevInput()
		}
	case loginResultMsg:
		m.Pending = false
		m.Err = msg.err
		return m, nil
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) nextInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (m.FocusIdx + 1) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m *LoginModel) prevInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx--
	if m.FocusIdx < 0 {
		m.FocusIdx = len(m.Inputs) - 1
	}
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) loginCmd() tea.Cmd {
	c := m.Client
	url := strings.TrimSpace(m.Inputs[inputURL].Value())
	email := strings.TrimSpace(m.Inputs[inputEmail].Value())
	password := m.Inputs[inputPassword].Value()
	return func() tea.Msg {
		return loginResultMsg{err: c.Login(context.Background(), url, email, password)}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Blog CMS - Login") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}
	b.WriteString("\n\n")
	if m.Pending {
		b.WriteString(statusMessageStyle("Signing in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
