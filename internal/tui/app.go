// Package tui is a terminal reader for the site: category tabs, a
// month-grouped article list that loads more on demand, article pages and
// the comics list.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/pager"
	"github.com/bilgisen/breakdown/internal/present"
	"github.com/bilgisen/breakdown/internal/query"
)

// Source is the content the reader shows.
type Source interface {
	pager.Lister
	FetchArticle(ctx context.Context, id string) *models.Article
	FetchRelatedArticles(ctx context.Context, category, excludeID string, limit int) []models.Article
	FetchComics(ctx context.Context) []models.Comic
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeArticle
	modeComics
)

// opinionFilters are cycled with "o" on the Opinion tab.
var opinionFilters = append([]models.OpinionType{models.OpinionAll}, models.OpinionTypes...)

type App struct {
	src          Source
	feed         *pager.Pager
	format       *present.Formatter
	relatedLimit int

	tabs       []models.Category
	tab        int
	opinion    int
	mode       mode
	cursor     int
	scroll     int
	cursorLine int
	articleSeq int

	article *present.View
	comics  []models.Comic

	searchInput textinput.Model
	spinner     spinner.Model

	width  int
	height int
	err    error
}

// Options configures the reader.
type Options struct {
	PageSize     int
	RelatedLimit int
	Location     *time.Location
}

func NewApp(src Source, opts Options) *App {
	ti := textinput.New()
	ti.Placeholder = "Search headlines and stories..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = query.MaxTermLength

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	if opts.RelatedLimit <= 0 {
		opts.RelatedLimit = query.DefaultRelatedLimit
	}

	return &App{
		src:          src,
		feed:         pager.New(src, opts.PageSize, pager.Filters{}),
		format:       present.NewFormatter(opts.Location),
		relatedLimit: opts.RelatedLimit,
		tabs:         append([]models.Category{models.CategoryAll}, models.Categories...),
		searchInput:  ti,
		spinner:      sp,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.resetCmd(), a.spinner.Tick)
}

// filters reads the current tab, column and search box.
func (a *App) filters() pager.Filters {
	f := pager.Filters{
		Category: string(a.tabs[a.tab]),
		Search:   a.searchInput.Value(),
	}
	if a.tabs[a.tab] == models.CategoryOpinion {
		f.OpinionType = string(opinionFilters[a.opinion])
	}
	return f
}

// resetCmd restarts the feed with the current filters. The pager drops the
// response of any request this one supersedes.
func (a *App) resetCmd() tea.Cmd {
	feed := a.feed
	f := a.filters()
	a.cursor = 0
	a.scroll = 0
	return func() tea.Msg {
		return pageLoadedMsg{err: feed.Reset(context.Background(), f)}
	}
}

func (a *App) loadMoreCmd() tea.Cmd {
	st := a.feed.State()
	if st.Exhausted || st.Fetching {
		return nil
	}
	feed := a.feed
	return func() tea.Msg {
		loaded, err := feed.LoadMore(context.Background())
		if !loaded && err == nil {
			return nil
		}
		return pageLoadedMsg{err: err}
	}
}

func (a *App) openArticleCmd(id string) tea.Cmd {
	a.articleSeq++
	seq := a.articleSeq
	src := a.src
	format := a.format
	limit := a.relatedLimit
	return func() tea.Msg {
		ctx := context.Background()
		art := src.FetchArticle(ctx, id)
		if art == nil {
			return articleLoadedMsg{seq: seq}
		}
		related := src.FetchRelatedArticles(ctx, art.Category, art.ID, limit)
		view := format.View(*art, related)
		return articleLoadedMsg{seq: seq, view: &view}
	}
}

func (a *App) loadComicsCmd() tea.Cmd {
	src := a.src
	return func() tea.Msg {
		return comicsLoadedMsg{comics: src.FetchComics(context.Background())}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		a.err = nil
		return a.handleKey(msg)

	case pageLoadedMsg:
		if errors.Is(msg.err, pager.ErrSuperseded) {
			return a, nil
		}
		a.err = msg.err
		if n := len(a.feed.State().Items); a.cursor >= n {
			a.cursor = max(0, n-1)
		}
		return a, nil

	case articleLoadedMsg:
		if msg.seq != a.articleSeq || a.mode != modeArticle {
			return a, nil
		}
		if msg.view == nil {
			a.err = errors.New("article not found")
			a.mode = modeList
			return a, nil
		}
		a.article = msg.view
		a.scroll = 0
		return a, nil

	case comicsLoadedMsg:
		a.comics = msg.comics
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.mode == modeSearch {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeArticle:
		return a.handleArticleKey(msg)
	case modeComics:
		return a.handleComicsKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.feed.State().Items

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.cursor < len(items)-1 {
			a.cursor++
			return a, nil
		}
		return a, a.loadMoreCmd()
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "m":
		return a, a.loadMoreCmd()
	case "tab", "l", "right":
		a.tab = (a.tab + 1) % len(a.tabs)
		a.opinion = 0
		return a, a.resetCmd()
	case "shift+tab", "h", "left":
		a.tab = (a.tab + len(a.tabs) - 1) % len(a.tabs)
		a.opinion = 0
		return a, a.resetCmd()
	case "o":
		if a.tabs[a.tab] != models.CategoryOpinion {
			return a, nil
		}
		a.opinion = (a.opinion + 1) % len(opinionFilters)
		return a, a.resetCmd()
	case "/":
		a.mode = modeSearch
		return a, a.searchInput.Focus()
	case "r":
		return a, a.resetCmd()
	case "c":
		a.mode = modeComics
		a.scroll = 0
		return a, a.loadComicsCmd()
	case "enter":
		if a.cursor < len(items) {
			a.mode = modeArticle
			a.article = nil
			return a, a.openArticleCmd(items[a.cursor].ID)
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.mode = modeList
		a.searchInput.Blur()
		return a, a.resetCmd()
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleArticleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "backspace":
		a.mode = modeList
		a.article = nil
		a.scroll = 0
	case "j", "down":
		a.scroll++
	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if a.article == nil {
			return a, nil
		}
		i := int(msg.String()[0] - '1')
		if i < len(a.article.Related) {
			id := a.article.Related[i].ID
			a.article = nil
			return a, a.openArticleCmd(id)
		}
	}
	return a, nil
}

func (a *App) handleComicsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "c", "esc":
		a.mode = modeList
		a.scroll = 0
	case "j", "down":
		if a.scroll < len(a.comics)-1 {
			a.scroll++
		}
	case "k", "up":
		if a.scroll > 0 {
			a.scroll--
		}
	}
	return a, nil
}

// Run starts the reader full screen and blocks until it quits.
func Run(src Source, opts Options) error {
	p := tea.NewProgram(NewApp(src, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
