package usecase

import (
	"context"
	"sync"
	"time"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
)

// SessionState enumerates the submission form lifecycle.
type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateFetchingMetadata SessionState = "fetchingMetadata"
	StateAwaitingAPIKey   SessionState = "awaitingApiKey"
	StateReady            SessionState = "ready"
	StateSubmitting       SessionState = "submitting"
)

// FieldSource records who populated a form field. Auto-fill results only
// land in fields the user has not touched, which resolves the race between
// in-flight fetches and user edits.
type FieldSource int

const (
	SourceEmpty FieldSource = iota
	SourceAuto
	SourceUser
)

// Field is one form value tagged with its provenance.
type Field struct {
	Value  string
	Source FieldSource
}

func (f *Field) setUser(value string) {
	f.Value = value
	if value == "" {
		f.Source = SourceEmpty
	} else {
		f.Source = SourceUser
	}
}

// fillAuto populates the field only when it is still empty.
func (f *Field) fillAuto(value string) {
	if f.Source != SourceEmpty || value == "" {
		return
	}
	f.Value = value
	f.Source = SourceAuto
}

// Form is the submission form state managed by a FormSession.
type Form struct {
	URL         string
	Type        domain.ResourceType
	Title       Field
	Description Field
	ImageURL    Field
	Category    domain.Category
}

// FormSession is the interactive submission orchestrator: it debounces URL
// input, runs per-type enrichment in the background, fills still-empty
// fields and walks the idle/fetching/awaitingApiKey/ready/submitting
// state machine.
type FormSession struct {
	mu        sync.Mutex
	intake    *Intake
	enrichers *enrich.Registry
	debounce  time.Duration
	timeout   time.Duration

	state  SessionState
	form   Form
	apiKey string
	seq    int
	timer  *time.Timer
}

// NewFormSession builds an idle session around the intake workflow.
func NewFormSession(intake *Intake, debounce time.Duration) *FormSession {
	if debounce <= 0 {
		debounce = 800 * time.Millisecond
	}
	return &FormSession{
		intake:    intake,
		enrichers: intake.enrichers,
		debounce:  debounce,
		timeout:   30 * time.Second,
		state:     StateIdle,
		form:      Form{Type: domain.TypeArticle},
	}
}

// SetType selects the resource type for the pending submission.
func (s *FormSession) SetType(t domain.ResourceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Type = t
}

// SetTitle records a user edit; later auto-fill will not overwrite it.
func (s *FormSession) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Title.setUser(title)
}

// SetDescription records a user edit.
func (s *FormSession) SetDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Description.setUser(description)
}

// SetCategory records a user selection.
func (s *FormSession) SetCategory(category domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Category = category
}

// SetURL records the target link and schedules enrichment after the
// debounce window. A newer edit supersedes any pending run; completions of
// superseded runs are dropped.
func (s *FormSession) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form.URL = url
	s.seq++

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if url == "" {
		s.state = StateIdle
		return
	}

	s.state = StateFetchingMetadata
	seq := s.seq
	s.timer = time.AfterFunc(s.debounce, func() {
		s.runEnrichment(seq)
	})
}

// ProvideAPIKey supplies a platform key and retries enrichment; the
// already-fetched title and thumbnail are retained.
func (s *FormSession) ProvideAPIKey(key string) {
	s.mu.Lock()
	s.apiKey = key
	s.seq++
	seq := s.seq
	s.state = StateFetchingMetadata
	s.mu.Unlock()

	go s.runEnrichment(seq)
}

func (s *FormSession) runEnrichment(seq int) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	req := enrich.Request{
		URL:    s.form.URL,
		Title:  s.form.Title.Value,
		APIKey: s.apiKey,
	}
	kind := s.form.Type
	s.mu.Unlock()

	enricher, err := s.enrichers.Resolve(kind)
	if err != nil {
		s.settle(seq, enrich.Metadata{})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	meta, err := enricher.Enrich(ctx, req)
	if err != nil {
		meta = enrich.Metadata{}
	}
	s.settle(seq, meta)
}

// settle applies enrichment results if the run is still current. Fields
// already edited by the user keep their values.
func (s *FormSession) settle(seq int, meta enrich.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return
	}

	s.form.Title.fillAuto(meta.Title)
	s.form.Description.fillAuto(meta.Description)
	s.form.ImageURL.fillAuto(meta.ImageURL)

	if meta.NeedsAPIKey && s.form.Type == domain.TypeYouTube &&
		s.apiKey == "" && s.form.Description.Source == SourceEmpty {
		s.state = StateAwaitingAPIKey
		return
	}
	s.state = StateReady
}

// Submit runs the intake workflow with the current form and resets the
// session to idle on success.
func (s *FormSession) Submit(ctx context.Context, author string) (domain.Article, error) {
	s.mu.Lock()
	s.seq++
	req := SubmitRequest{
		URL:         s.form.URL,
		Type:        s.form.Type,
		Title:       s.form.Title.Value,
		Description: s.form.Description.Value,
		Category:    s.form.Category,
		Author:      author,
		APIKey:      s.apiKey,
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	article, err := s.intake.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateReady
		return domain.Article{}, err
	}

	s.form = Form{Type: domain.TypeArticle}
	s.state = StateIdle
	return article, nil
}

// Snapshot returns the current state and a copy of the form.
func (s *FormSession) Snapshot() (SessionState, Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.form
}
