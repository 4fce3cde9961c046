// Package tui is the terminal catalog browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"crannies/internal/book"
	"crannies/internal/card"
	"crannies/internal/catalog"
	"crannies/internal/collection"
	"crannies/internal/events"
	"crannies/internal/filter"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	gloss "github.com/charmbracelet/lipgloss"
)

// Catalog is the part of catalog.Service the browser drives.
type Catalog interface {
	Browse(ctx context.Context, state filter.State) catalog.Page
	CollectionBooks(ctx context.Context, query, genre string) catalog.Page
	Genres(ctx context.Context) []string
	Delete(ctx context.Context, pos int) (book.Book, error)
}

// Toggler flips collection membership.
type Toggler interface {
	Toggle(ctx context.Context, title string) (collection.ToggleResult, error)
}

type tab int

const (
	tabCatalog tab = iota
	tabCollection
)

var facets = []filter.SearchBy{
	filter.SearchAll,
	filter.SearchTitle,
	filter.SearchAuthor,
	filter.SearchBestSellers,
	filter.SearchTrending,
}

type changeMsg events.Change

type cardItem struct {
	view    card.View
	flipped bool
}

func (i cardItem) Title() string {
	title := i.view.Title
	if i.view.InCollection {
		title = "★ " + title
	}
	for _, tag := range i.view.Tags {
		title += " " + TagStyle.Render("["+tag+"]")
	}
	return title
}

func (i cardItem) Description() string {
	if i.flipped {
		if i.view.Description == "" {
			return "No description."
		}
		return i.view.Description
	}
	return fmt.Sprintf("%s · %s · %d", i.view.Author, i.view.Genre, i.view.Year)
}

func (i cardItem) FilterValue() string { return i.view.Title }

type cardDelegate struct {
	list.DefaultDelegate
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	title, desc := it.Title(), it.Description()
	if width := m.Width() - 6; width > 1 {
		if r := []rune(desc); len(r) > width {
			desc = string(r[:width-1]) + "…"
		}
	}
	if index == m.Index() {
		title = SelectedTitleStyle.Render(title)
		desc = SelectedDescStyle.Render(desc)
	} else {
		title = NormalTitleStyle.Render(title)
		desc = NormalDescStyle.Render(desc)
	}
	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func (d cardDelegate) Height() int  { return 2 }
func (d cardDelegate) Spacing() int { return 1 }

func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Model is the bubbletea model of the browser.
type Model struct {
	ctx        context.Context
	catalog    Catalog
	collection Toggler
	changes    <-chan events.Change

	tab       tab
	list      list.Model
	input     textinput.Model
	searching bool
	state     filter.State
	genres    []string
	genreIdx  int
	facetIdx  int
	flipped   map[string]bool
	pending   *card.View

	page   catalog.Page
	status string
	err    error
	width  int
	height int
}

// Options configures New. Changes, when set, is a subscription whose events
// trigger a reload.
type Options struct {
	Query   string
	Changes <-chan events.Change
}

func New(ctx context.Context, cat Catalog, toggler Toggler, opts Options) Model {
	l := list.New(nil, cardDelegate{}, 80, 20)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 80
	ti.Width = 40

	m := Model{
		ctx:        ctx,
		catalog:    cat,
		collection: toggler,
		changes:    opts.Changes,
		list:       l,
		input:      ti,
		state:      filter.State{SearchQuery: strings.TrimSpace(opts.Query), SearchBy: filter.SearchAll},
		flipped:    make(map[string]bool),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan events.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func (m *Model) selectedGenre() string {
	if m.genreIdx == 0 || m.genreIdx >= len(m.genres) {
		return ""
	}
	return m.genres[m.genreIdx]
}

func (m *Model) reload() {
	m.genres = m.catalog.Genres(m.ctx)
	if genre := m.selectedGenre(); genre != "" {
		m.state.SelectedGenre = &genre
	} else {
		m.state.SelectedGenre = nil
	}

	if m.tab == tabCollection {
		m.page = m.catalog.CollectionBooks(m.ctx, m.state.SearchQuery, m.selectedGenre())
	} else {
		m.page = m.catalog.Browse(m.ctx, m.state)
	}

	items := make([]list.Item, 0, len(m.page.Cards))
	for _, v := range m.page.Cards {
		items = append(items, cardItem{view: v, flipped: m.flipped[v.Title]})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m *Model) selected() (cardItem, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	return it, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-10, 4))
		return m, nil

	case changeMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.pending != nil {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		m.state.SearchQuery = strings.TrimSpace(m.input.Value())
		m.reload()
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.pending
	m.pending = nil
	if msg.String() != "y" {
		m.status = "Delete cancelled."
		return m, nil
	}
	removed, err := m.catalog.Delete(m.ctx, target.Index)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("Deleted %q.", removed.Title)
	m.reload()
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.tab == tabCatalog {
			m.tab = tabCollection
		} else {
			m.tab = tabCatalog
		}
		m.list.Select(0)
		m.reload()
		return m, nil

	case "/":
		m.searching = true
		m.input.SetValue(m.state.SearchQuery)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case "f":
		if m.tab == tabCatalog {
			m.facetIdx = (m.facetIdx + 1) % len(facets)
			m.state.SearchBy = facets[m.facetIdx]
			m.reload()
		}
		return m, nil

	case "g":
		if len(m.genres) > 0 {
			m.genreIdx = (m.genreIdx + 1) % len(m.genres)
			m.reload()
		}
		return m, nil

	case "t":
		if m.tab == tabCatalog {
			m.state.ShowOnlyTrending = nextTrending(m.state.ShowOnlyTrending)
			m.reload()
		}
		return m, nil

	case "esc":
		m.state = filter.State{SearchBy: filter.SearchAll}
		m.facetIdx, m.genreIdx = 0, 0
		m.status = ""
		m.reload()
		return m, nil

	case " ", "c":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		res, err := m.collection.Toggle(m.ctx, it.view.Title)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if res.InCollection {
			m.status = fmt.Sprintf("Added %q to your collection.", it.view.Title)
		} else {
			m.status = fmt.Sprintf("Removed %q from your collection.", it.view.Title)
		}
		m.reload()
		return m, nil

	case "enter":
		if it, ok := m.selected(); ok {
			m.flipped[it.view.Title] = !m.flipped[it.view.Title]
			m.reload()
		}
		return m, nil

	case "d":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !it.view.Deletable {
			m.status = "Built-in books cannot be deleted."
			return m, nil
		}
		v := it.view
		m.pending = &v
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func nextTrending(cur *bool) *bool {
	switch {
	case cur == nil:
		v := true
		return &v
	case *cur:
		v := false
		return &v
	default:
		return nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	catalogTab, collectionTab := ActiveTabStyle, InactiveTabStyle
	if m.tab == tabCollection {
		catalogTab, collectionTab = InactiveTabStyle, ActiveTabStyle
	}
	b.WriteString(gloss.JoinHorizontal(gloss.Top,
		catalogTab.Render("Catalog"),
		collectionTab.Render("My Collection "+BadgeStyle.Render(strconv.Itoa(m.page.Collected))),
	))
	b.WriteString("\n")
	b.WriteString(FilterStyle.Render(m.filterSummary()))
	b.WriteString("\n")

	switch {
	case m.tab == tabCollection && m.page.Collected == 0:
		b.WriteString(StatusStyle.Render("Your collection is empty. Press space on a book to add it."))
	case m.page.NoResults:
		b.WriteString(StatusStyle.Render("No books match your search."))
	default:
		b.WriteString(ListStyle.Render(m.list.View()))
	}
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.input.View())
	case m.pending != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.pending.Title)))
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(StatusStyle.Render(m.status))
	}

	b.WriteString(HelpStyle.Render("/ search · f facet · g genre · t trending · space collect · enter flip · d delete · tab switch · q quit"))
	return b.String()
}

func (m Model) filterSummary() string {
	parts := []string{"facet: " + string(m.state.SearchBy)}
	if m.state.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("query: %q", m.state.SearchQuery))
	}
	genre := book.GenreAll
	if g := m.selectedGenre(); g != "" {
		genre = g
	}
	parts = append(parts, "genre: "+genre)
	if m.state.ShowOnlyTrending != nil {
		parts = append(parts, "trending: "+strconv.FormatBool(*m.state.ShowOnlyTrending))
	}
	return strings.Join(parts, " · ")
}
