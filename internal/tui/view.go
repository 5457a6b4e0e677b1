package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bilgisen/breakdown/internal/models"
)

const defaultWidth = 80

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}

	var body string
	switch a.mode {
	case modeArticle:
		body = a.renderArticle(width)
	case modeComics:
		body = a.renderComics()
	default:
		body = a.renderList(width)
	}

	var b strings.Builder
	b.WriteString(mastheadStyle.Render("THE BREAKDOWN"))
	b.WriteString("\n")
	b.WriteString(a.renderTabs(width))
	b.WriteString("\n")
	if a.mode == modeSearch {
		b.WriteString(a.searchInput.View())
		b.WriteString("\n")
	} else if q := a.searchInput.Value(); q != "" {
		b.WriteString(itemMetaStyle.Render(fmt.Sprintf(" search: %q", q)))
		b.WriteString("\n")
	}
	b.WriteString(a.clip(body))
	b.WriteString("\n")
	if a.err != nil {
		b.WriteString(errorStyle.Render(" " + a.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(a.renderStatusBar(width))
	return b.String()
}

func (a *App) renderTabs(width int) string {
	var parts []string
	for i, t := range a.tabs {
		style := tabInactiveStyle
		if i == a.tab {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(string(t)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	if a.tabs[a.tab] == models.CategoryOpinion {
		var cols []string
		for i, o := range opinionFilters {
			style := tabInactiveStyle
			if i == a.opinion {
				style = tabActiveStyle
			}
			cols = append(cols, style.Render(o.Label()))
		}
		row += "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(row)
}

// renderList draws the feed grouped by month and records the line of the
// selected item in a.cursorLine.
func (a *App) renderList(width int) string {
	st := a.feed.State()
	if len(st.Items) == 0 {
		if st.Fetching {
			return " " + a.spinner.View() + " Loading..."
		}
		return itemMetaStyle.Render(" No articles found.")
	}

	var lines []string
	idx := 0
	for _, sec := range a.format.Sections(st.Items) {
		lines = append(lines, sectionStyle.Render(fmt.Sprintf(" %s  %s", sec.Label, itemMetaStyle.Render(sec.CountLabel))))
		for _, card := range sec.Items {
			prefix, style := "   ", itemTitleStyle
			if idx == a.cursor {
				prefix, style = " > ", itemSelectedStyle
			}
			meta := card.DateLabel + " · " + card.Category
			if card.OpinionLabel != "" {
				meta += " · " + card.OpinionLabel
			}
			lines = append(lines,
				prefix+style.Render(truncate(card.Headline, width-4)),
				"   "+itemMetaStyle.Render(truncate(meta, width-4)),
			)
			if idx == a.cursor {
				a.cursorLine = len(lines) - 1
			}
			idx++
		}
	}

	switch {
	case st.Fetching:
		lines = append(lines, " "+a.spinner.View()+" Loading more...")
	case st.Exhausted:
		lines = append(lines, itemMetaStyle.Render(" · end of archive ·"))
	default:
		lines = append(lines, itemMetaStyle.Render(" m load more"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderArticle(width int) string {
	if a.article == nil {
		return " " + a.spinner.View() + " Loading article..."
	}
	v := a.article
	wrap := lipgloss.NewStyle().Width(min(width, 100) - 2).PaddingLeft(1)

	var parts []string
	meta := v.DateLabel + " · " + v.TimeLabel + " · " + v.Category
	if v.OpinionLabel != "" {
		meta += " · " + v.OpinionLabel
	}
	parts = append(parts,
		wrap.Render(articleHeadlineStyle.Render(v.Headline)),
		wrap.Render(articleAngleStyle.Render(v.Angle)),
		wrap.Render(itemMetaStyle.Render(meta)),
		"",
	)
	for _, p := range v.Paragraphs {
		parts = append(parts, wrap.Render(p), "")
	}
	if len(v.Related) > 0 {
		parts = append(parts, sectionStyle.Render(" More from "+v.Category))
		for i, r := range v.Related {
			parts = append(parts, fmt.Sprintf(" %d %s", i+1, truncate(r.Headline, width-4)))
		}
	}
	lines := strings.Split(strings.Join(parts, "\n"), "\n")
	return strings.Join(lines[min(a.scroll, len(lines)-1):], "\n")
}

func (a *App) renderComics() string {
	if a.comics == nil {
		return " " + a.spinner.View() + " Loading comics..."
	}
	if len(a.comics) == 0 {
		return itemMetaStyle.Render(" No comics yet.")
	}
	var lines []string
	for i, c := range a.comics {
		prefix, style := "   ", itemTitleStyle
		if i == a.scroll {
			prefix, style = " > ", itemSelectedStyle
		}
		caption := "(untitled)"
		if c.Caption != nil && *c.Caption != "" {
			caption = *c.Caption
		}
		lines = append(lines,
			prefix+style.Render(caption),
			"   "+itemMetaStyle.Render(a.format.Date(c.CreatedAt)+" · "+c.ImageURL),
		)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatusBar(width int) string {
	st := a.feed.State()
	left := fmt.Sprintf(" %d articles", len(st.Items))
	if st.Exhausted {
		left += " · all loaded"
	}

	var right string
	switch a.mode {
	case modeSearch:
		right = " esc cancel  enter search "
	case modeArticle:
		right = " esc back  1-9 related  q quit "
	case modeComics:
		right = " c back  q quit "
	default:
		right = " ←/→ section  / search  m more  c comics  q quit "
		if a.tabs[a.tab] == models.CategoryOpinion {
			right = " o column" + right
		}
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// clip keeps the body inside the terminal height, following the cursor in
// the list.
func (a *App) clip(body string) string {
	if a.height <= 0 {
		return body
	}
	room := a.height - 6
	if room < 3 {
		room = 3
	}
	lines := strings.Split(body, "\n")
	if len(lines) <= room {
		return body
	}

	start := 0
	if a.mode == modeList && a.cursorLine >= room {
		start = a.cursorLine - room + 2
	}
	end := min(start+room, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
