package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateDashboard
)

type RootModel struct {
	State     state
	Client    *Client
	Login     LoginModel
	Dashboard DashboardModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(baseURL string) RootModel {
	c := NewClient()
	return RootModel{
		State:  stateLogin,
		Client: c,
		Login:  NewLoginModel(c, baseURL),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Dashboard.Table.SetHeight(tableHeight(msg.Height))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}

	case loginResultMsg:
		if msg.err == nil {
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Client, m.height)
			return m, m.Dashboard.Init()
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case stateLogin:
		m.Login, cmd = m.Login.Update(msg)
	case stateDashboard:
		m.Dashboard, cmd = m.Dashboard.Update(msg)
	}
	return m, cmd
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateLogin:
		return docStyle.Render(m.Login.View())
	case stateDashboard:
		return docStyle.Render(m.Dashboard.View())
	}
	return "Unknown state"
}
