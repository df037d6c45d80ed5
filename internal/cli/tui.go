package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pypeek/pypeek/pkg/registry"
	"github.com/pypeek/pypeek/pkg/registry/pypi"
)

// =============================================================================
// Messages
// =============================================================================

// fetchSucceededMsg delivers a decoded package back into the event loop.
type fetchSucceededMsg struct {
	info *pypi.PackageInfo
}

// fetchFailedMsg delivers a formatted lookup failure.
type fetchFailedMsg struct {
	err error
}

// =============================================================================
// ViewerModel - picker, lookup state, details rendering
// =============================================================================

// ViewerModel is the bubbletea model for the package viewer.
//
// State transitions follow three events: selecting a picker entry starts an
// asynchronous fetch and reveals the details region; a successful fetch
// stores the package and clears any error; a failed fetch stores the
// formatted error and leaves the previously fetched package in place. The
// view shows the error in preference to package details whenever both are
// set.
//
// Racing fetches are possible: selecting a second package before the first
// lookup resolves leaves both requests in flight, and completions are
// applied in arrival order. The last response to resolve wins. There is no
// sequence-number guard; this mirrors the lookup semantics the rest of the
// application is specified against.
type ViewerModel struct {
	client   *pypi.Client
	logger   *log.Logger
	packages []string

	cursor         int
	detailsVisible bool
	info           *pypi.PackageInfo
	errMsg         string

	pending int // in-flight fetches
	spin    spinner.Model
}

// NewViewerModel creates a viewer over the given picker packages.
func NewViewerModel(client *pypi.Client, logger *log.Logger, packages []string) ViewerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styleIconSpinner
	return ViewerModel{
		client:   client,
		logger:   logger,
		packages: packages,
		spin:     s,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.packages)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.packages) == 0 {
				return m, nil
			}
			// SelectPackage: reveal the details region and start the fetch.
			// The stored package and error stay untouched until it resolves.
			m.detailsVisible = true
			m.pending++
			return m, tea.Batch(m.fetchCmd(m.packages[m.cursor]), m.spin.Tick)
		}

	case fetchSucceededMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.info = msg.info
		m.errMsg = ""

	case fetchFailedMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.errMsg = registry.FormatError(msg.err)

	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// fetchCmd performs the lookup off the event loop and feeds the result back
// in as a message. The correlation id exists only for the debug log; it is
// deliberately not used to discard stale completions.
func (m ViewerModel) fetchCmd(name string) tea.Cmd {
	client := m.client
	logger := m.logger
	id := uuid.NewString()
	logger.Debug("fetch started", "package", name, "request_id", id)

	return func() tea.Msg {
		info, err := client.FetchPackage(context.Background(), name)
		if err != nil {
			logger.Debug("fetch failed", "package", name, "request_id", id, "error", err)
			return fetchFailedMsg{err: err}
		}
		logger.Debug("fetch finished", "package", name, "request_id", id, "releases", len(info.Releases))
		return fetchSucceededMsg{info: info}
	}
}

func (m ViewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("PyPI Package Viewer"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ fetch  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.packages {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + name
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if !m.detailsVisible {
		return b.String()
	}
	b.WriteString("\n")

	if m.pending > 0 {
		b.WriteString(m.spin.View() + StyleDim.Render(" fetching…"))
		b.WriteString("\n\n")
	}

	// Error wins over details whenever both are set.
	switch {
	case m.errMsg != "":
		b.WriteString(StyleError.Render("Error"))
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(m.errMsg))
		b.WriteString("\n")
	case m.info != nil:
		b.WriteString(renderDetails(m.info))
	}

	return b.String()
}

// renderDetails renders the package details block: name, releases, related
// links, and dependencies (or the "No dependencies" literal when the
// registry declared none).
func renderDetails(info *pypi.PackageInfo) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(info.Name))
	b.WriteString("\n\n")

	b.WriteString(styleSection.Render("Releases"))
	b.WriteString("\n")
	for _, v := range info.Releases {
		b.WriteString("  " + StyleDim.Render(iconBullet) + " " + StyleValue.Render(v))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleSection.Render("Related links"))
	b.WriteString("\n")
	for _, u := range info.RelatedLinks {
		b.WriteString("  " + StyleDim.Render(iconBullet) + " " + StyleLink.Render(u))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleSection.Render("Dependencies"))
	b.WriteString("\n")
	if info.Dependencies == nil {
		b.WriteString("  " + StyleDim.Render("No dependencies"))
		b.WriteString("\n")
	} else {
		for _, d := range info.Dependencies {
			b.WriteString("  " + StyleDim.Render(iconBullet) + " " + StyleValue.Render(d))
			b.WriteString("\n")
		}
	}

	return b.String()
}
