package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// Badge color classes.
const (
	BadgeSuccess = "badge-success"
	BadgeWarning = "badge-warning"
	BadgeError   = "badge-error"
	BadgeInfo    = "badge-info"
)

// Text renders a plain paragraph, used as a fallback when no data is available.
type Text struct {
	Message string
}

// NewText creates a text component.
func NewText(message string) *Text {
	return &Text{Message: message}
}

// Render writes the text component as HTML.
func (t *Text) Render(w io.Writer) error {
	html, err := renderTemplate("text.html", textData{Message: t.Message})
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	return writeHTML(w, html)
}

// Badge is a small colored label.
type Badge struct {
	Text  string
	Class string
}

// NewBadge creates a badge with the default info color.
func NewBadge(text string) *Badge {
	return &Badge{Text: text, Class: BadgeInfo}
}

// WithColor sets the badge color class.
func (b *Badge) WithColor(class string) *Badge {
	b.Class = class

	return b
}

// Render writes the badge as HTML.
func (b *Badge) Render(w io.Writer) error {
	html, err := renderTemplate("badge.html", badgeData{Text: b.Text, Class: b.Class})
	if err != nil {
		return fmt.Errorf("render badge: %w", err)
	}

	return writeHTML(w, html)
}

// Stat is a single labeled value with an optional trend badge.
type Stat struct {
	Label      string
	Value      string
	Trend      string
	TrendClass string
}

// NewStat creates a stat component.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithTrend attaches a trend badge to the stat.
func (s *Stat) WithTrend(text, class string) *Stat {
	s.Trend = text
	s.TrendClass = class

	return s
}

// Render writes the stat as HTML.
func (s *Stat) Render(w io.Writer) error {
	html, err := renderTemplate("stat.html", statData{
		Label:      s.Label,
		Value:      s.Value,
		Trend:      s.Trend,
		TrendClass: s.TrendClass,
	})
	if err != nil {
		return fmt.Errorf("render stat: %w", err)
	}

	return writeHTML(w, html)
}

// Grid lays out components in equal columns.
type Grid struct {
	Cols  int
	Items []Renderable
}

// NewGrid creates a grid with the given column count.
func NewGrid(cols int, items ...Renderable) *Grid {
	return &Grid{Cols: cols, Items: items}
}

// Add appends items to the grid.
func (g *Grid) Add(items ...Renderable) *Grid {
	g.Items = append(g.Items, items...)

	return g
}

// Render writes the grid as HTML.
func (g *Grid) Render(w io.Writer) error {
	rendered, err := renderAll(g.Items)
	if err != nil {
		return fmt.Errorf("render grid items: %w", err)
	}

	html, err := renderTemplate("grid.html", gridData{Cols: g.Cols, Items: rendered})
	if err != nil {
		return fmt.Errorf("render grid: %w", err)
	}

	return writeHTML(w, html)
}

// Card is a titled container for another component.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card body.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// Render writes the card as HTML.
func (c *Card) Render(w io.Writer) error {
	var body template.HTML

	if c.Content != nil {
		var buf bytes.Buffer

		err := c.Content.Render(&buf)
		if err != nil {
			return fmt.Errorf("render card content: %w", err)
		}

		body = template.HTML(buf.String())
	}

	html, err := renderTemplate("card.html", cardData{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Content:  body,
	})
	if err != nil {
		return fmt.Errorf("render card: %w", err)
	}

	return writeHTML(w, html)
}

// Table is a simple data table. Cell values may contain pre-rendered HTML
// such as badges.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row of cells to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table as HTML.
func (t *Table) Render(w io.Writer) error {
	rows := make([][]template.HTML, len(t.Rows))

	for i, row := range t.Rows {
		cells := make([]template.HTML, len(row))

		for j, cell := range row {
			cells[j] = template.HTML(cell)
		}

		rows[i] = cells
	}

	html, err := renderTemplate("table.html", tableData{Headers: t.Headers, Rows: rows})
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return writeHTML(w, html)
}

// Alert is a prominent callout box.
type Alert struct {
	Title   string
	Message string
	Class   string
}

// NewAlert creates an alert with the given badge color class.
func NewAlert(title, message, class string) *Alert {
	return &Alert{Title: title, Message: message, Class: class}
}

// Render writes the alert as HTML.
func (a *Alert) Render(w io.Writer) error {
	html, err := renderTemplate("alert.html", alertData{
		Title:   a.Title,
		Message: a.Message,
		Class:   a.Class,
	})
	if err != nil {
		return fmt.Errorf("render alert: %w", err)
	}

	return writeHTML(w, html)
}

// TabItem is a single tab with its content.
type TabItem struct {
	ID      string
	Label   string
	Content Renderable
}

// Tabs is a tabbed container. The first tab is active by default.
type Tabs struct {
	ID    string
	Items []TabItem
}

// NewTabs creates a tabbed container with the given element id.
func NewTabs(id string, items ...TabItem) *Tabs {
	return &Tabs{ID: id, Items: items}
}

// Render writes the tabs as HTML.
func (t *Tabs) Render(w io.Writer) error {
	items := make([]tabItemData, len(t.Items))

	for i, item := range t.Items {
		var buf bytes.Buffer

		if item.Content != nil {
			err := item.Content.Render(&buf)
			if err != nil {
				return fmt.Errorf("render tab %s: %w", item.ID, err)
			}
		}

		items[i] = tabItemData{
			ID:      item.ID,
			Label:   item.Label,
			Content: template.HTML(buf.String()),
			Active:  i == 0,
		}
	}

	html, err := renderTemplate("tabs.html", tabsData{ID: t.ID, Items: items})
	if err != nil {
		return fmt.Errorf("render tabs: %w", err)
	}

	return writeHTML(w, html)
}

func renderAll(items []Renderable) ([]template.HTML, error) {
	rendered := make([]template.HTML, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}

		var buf bytes.Buffer

		err := item.Render(&buf)
		if err != nil {
			return nil, err
		}

		rendered = append(rendered, template.HTML(buf.String()))
	}

	return rendered, nil
}

func writeHTML(w io.Writer, html template.HTML) error {
	_, err := io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing component: %w", err)
	}

	return nil
}
