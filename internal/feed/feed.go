// Package feed records what an operator's page shows: chat entries, the
// typing indicator, the results panel and the mounted gauge. It is the view
// the orchestrators drive and the surface the gauge renderer draws on.
package feed

import (
	"html"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

// WelcomeMessage seeds every new feed.
const WelcomeMessage = "Hello! I'm your Dengue Intelligence Assistant. Enter patient information in the form to get started with risk assessment, or ask me anything about dengue prevention and treatment."

// Role of a feed entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PanelState is the state of the results panel.
type PanelState string

const (
	PanelIdle    PanelState = "idle"
	PanelLoading PanelState = "loading"
	PanelResults PanelState = "results"
	PanelError   PanelState = "error"
)

// Entry is one chat bubble. HTML is display-ready.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Role    Role      `json:"role"`
	HTML    string    `json:"html"`
	Pending bool      `json:"pending,omitempty"`
	At      time.Time `json:"at"`
}

// Factor is one key factor line in the results panel.
type Factor struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Results is the data the results panel shows.
type Results struct {
	Level              string   `json:"level"`
	Badge              string   `json:"badge"`
	Color              string   `json:"color"`
	Percent            int      `json:"percent"`
	RecommendationHTML string   `json:"recommendation_html"`
	Factors            []Factor `json:"factors,omitempty"`
}

// Panel is the results area: idle, loading, showing results or an error.
type Panel struct {
	State   PanelState `json:"state"`
	Results *Results   `json:"results,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Snapshot is a copy of the whole feed.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Typing  bool    `json:"typing"`
	Panel   Panel   `json:"panel"`
	Alert   string  `json:"alert,omitempty"`
}

// Feed is safe for concurrent use.
type Feed struct {
	mu      sync.Mutex
	entries []Entry
	typing  bool
	panel   Panel
	alert   string
	gauge   []byte
	now     func() time.Time
}

// New returns a feed holding only the welcome message.
func New() *Feed {
	f := &Feed{panel: Panel{State: PanelIdle}, now: time.Now}
	f.entries = append(f.entries, Entry{ID: uuid.New(), Role: RoleAssistant, HTML: WelcomeMessage, At: f.now()})
	return f
}

// ─── VIEW ─────────────────────────────────────────────────────────────────────

// Alert records an immediate prompt, e.g. a validation failure.
func (f *Feed) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alert = msg
}

// ShowLoading switches the panel to its loading state.
func (f *Feed) ShowLoading() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alert = ""
	f.panel = Panel{State: PanelLoading}
}

// ShowResults fills the results panel from a.
func (f *Feed) ShowResults(a session.RiskAssessment) {
	res := &Results{
		Level:              string(a.Level),
		Badge:              badge(a.Level),
		Color:              format.RiskColor(string(a.Level)),
		Percent:            format.Percent(a.Probability),
		RecommendationHTML: format.FormatRecommendation(a.Recommendation),
	}
	keys := make([]string, 0, len(a.KeyFactors))
	for k := range a.KeyFactors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res.Factors = append(res.Factors, Factor{Label: format.FactLabel(k), Value: a.KeyFactors[k]})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.panel = Panel{State: PanelResults, Results: res}
}

// ShowError switches the panel to its error state.
func (f *Feed) ShowError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panel = Panel{State: PanelError, Error: "Error calculating risk: " + msg}
}

// AppendUserTurn shows a user message as pending.
func (f *Feed) AppendUserTurn(id uuid.UUID, text string) {
	f.append(Entry{ID: id, Role: RoleUser, HTML: escapeUserText(text), Pending: true})
}

// escapeUserText shows operator text literally; only line breaks are kept.
func escapeUserText(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// ConfirmUserTurn clears the pending flag of entry id.
func (f *Feed) ConfirmUserTurn(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Pending = false
			return
		}
	}
}

// AppendAssistant shows an assistant message. html must already be formatted.
func (f *Feed) AppendAssistant(html string) {
	f.append(Entry{ID: uuid.New(), Role: RoleAssistant, HTML: html})
}

// SetTyping shows or hides the typing indicator.
func (f *Feed) SetTyping(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = on
}

// ─── GAUGE SURFACE ────────────────────────────────────────────────────────────

// Mount stores the gauge SVG.
func (f *Feed) Mount(svg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gauge = slices.Clone(svg)
}

// Clear removes the mounted gauge.
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gauge = nil
}

// Gauge returns the mounted gauge SVG, or nil.
func (f *Feed) Gauge() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.gauge)
}

// ─── READ ─────────────────────────────────────────────────────────────────────

// Snapshot returns a copy of the feed.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.panel
	if p.Results != nil {
		r := *p.Results
		r.Factors = slices.Clone(r.Factors)
		p.Results = &r
	}
	return Snapshot{
		Entries: slices.Clone(f.entries),
		Typing:  f.typing,
		Panel:   p,
		Alert:   f.alert,
	}
}

func (f *Feed) append(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.At = f.now()
	f.entries = append(f.entries, e)
}

func badge(l format.Level) string {
	return strings.ToUpper(format.RiskLabel(string(l)))
}
