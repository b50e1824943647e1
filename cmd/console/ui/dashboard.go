package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"blog-cms/backend/app/models"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type DashboardModel struct {
	Client        *Client
	Table         table.Model
	Posts         []models.PostView
	PublishedOnly bool
	Status        string
	Err           error
}

type postsMsg struct {
	posts []models.PostView
	err   error
}

type postDeletedMsg struct {
	id  uint
	err error
}

func NewDashboardModel(c *Client, height int) DashboardModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Title", Width: 30},
		{Title: "Status", Width: 10},
		{Title: "Author", Width: 16},
		{Title: "Category", Width: 14},
		{Title: "Tag", Width: 12},
		{Title: "Created", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	sStyle := table.DefaultStyles()
	sStyle.Header = sStyle.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	sStyle.Selected = sStyle.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(sStyle)

	return DashboardModel{Client: c, Table: t}
}

func tableHeight(height int) int {
	if height <= 0 {
		return 15
	}
	if h := height - 10; h > 3 {
		return h
	}
	return 3
}

func (m DashboardModel) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m DashboardModel) fetchCmd() tea.Cmd {
	c, published := m.Client, m.PublishedOnly
	return func() tea.Msg {
		posts, err := c.Posts(context.Background(), published)
		return postsMsg{posts: posts, err: err}
	}
}

func (m DashboardModel) deleteCmd(id uint) tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		return postDeletedMsg{id: id, err: c.DeletePost(context.Background(), id)}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.Status = "refreshing..."
			return m, m.fetchCmd()
		case "p":
			m.PublishedOnly = !m.PublishedOnly
			m.Status = "refreshing..."
			return m, m.fetchCmd()
		case "d":
			if id, ok := m.selectedID(); ok {
				m.Status = fmt.Sprintf("deleting post %d...", id)
				return m, m.deleteCmd(id)
			}
			return m, nil
		case "q":
			return m, tea.Quit
		}

	case postsMsg:
		m.Err = msg.err
		if msg.err == nil {
			m.setPosts(msg.posts)
			m.Status = fmt.Sprintf("%d posts", len(msg.posts))
		}
		return m, nil

	case postDeletedMsg:
		if msg.err != nil {
			m.Err = msg.err
			m.Status = ""
			return m, nil
		}
		m.Err = nil
		m.Status = fmt.Sprintf("post %d deleted", msg.id)
		return m, m.fetchCmd()
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m *DashboardModel) setPosts(posts []models.PostView) {
	m.Posts = posts
	rows := make([]table.Row, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Title,
			string(p.Status),
			deref(p.AuthorName),
			deref(p.CategoryName),
			deref(p.TagName),
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	m.Table.SetRows(rows)
}

func (m DashboardModel) selectedID() (uint, bool) {
	row := m.Table.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (m DashboardModel) View() string {
	var b strings.Builder
	title := "Posts"
	if m.PublishedOnly {
		title = "Published posts"
	}
	b.WriteString(titleStyle.Render(title) + "  " + blurredStyle.Render("signed in as "+m.Client.Role) + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("r refresh  p toggle published  d delete  q quit"))
	if m.Status != "" {
		b.WriteString("\n" + statusMessageStyle(m.Status))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
