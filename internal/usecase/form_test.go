package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/enrich"
)

const formDebounce = 10 * time.Millisecond

// blockingEnricher holds every Enrich call until released, so tests can
// interleave user edits with in-flight fetches.
type blockingEnricher struct {
	kind    domain.ResourceType
	meta    enrich.Metadata
	mu      sync.Mutex
	blocked chan struct{}
}

func (b *blockingEnricher) Type() domain.ResourceType { return b.kind }

func (b *blockingEnricher) Enrich(ctx context.Context, req enrich.Request) (enrich.Metadata, error) {
	b.mu.Lock()
	meta := b.meta
	blocked := b.blocked
	b.mu.Unlock()
	if blocked != nil {
		<-blocked
	}
	return meta, nil
}

func (b *blockingEnricher) block() chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocked = make(chan struct{})
	return b.blocked
}

func sessionWith(t *testing.T, enrichers ...enrich.Enricher) *FormSession {
	t.Helper()
	intake := newIntake(t, IntakeDeps{
		Enrichers: registryWith(enrichers...),
		Generator: &stubGenerator{result: domain.GeneratedContent{Summary: "gen", Category: domain.CategoryTech}},
	})
	return NewFormSession(intake, formDebounce)
}

func waitForState(t *testing.T, s *FormSession, want SessionState) {
	t.Helper()
	require.Eventually(t, func() bool {
		state, _ := s.Snapshot()
		return state == want
	}, time.Second, time.Millisecond, "state never reached %s", want)
}

func TestFormSession_AutoFillsAfterDebounce(t *testing.T) {
	s := sessionWith(t, &stubEnricher{
		kind: domain.TypeArticle,
		meta: enrich.Metadata{Title: "Scraped", Description: "Desc", ImageURL: "https://img/x.jpg"},
	})

	s.SetURL("https://example.com/post")
	state, _ := s.Snapshot()
	assert.Equal(t, StateFetchingMetadata, state)

	waitForState(t, s, StateReady)

	_, form := s.Snapshot()
	assert.Equal(t, "Scraped", form.Title.Value)
	assert.Equal(t, SourceAuto, form.Title.Source)
	assert.Equal(t, "https://img/x.jpg", form.ImageURL.Value)
}

func TestFormSession_UserEditSurvivesLateFetch(t *testing.T) {
	enricher := &blockingEnricher{
		kind: domain.TypeArticle,
		meta: enrich.Metadata{Title: "Scraped", Description: "Scraped desc"},
	}
	release := enricher.block()
	s := sessionWith(t, enricher)

	s.SetURL("https://example.com/post")
	time.Sleep(3 * formDebounce)

	// The fetch is in flight; the user types a title meanwhile.
	s.SetTitle("Typed By Hand")
	close(release)

	waitForState(t, s, StateReady)

	_, form := s.Snapshot()
	assert.Equal(t, "Typed By Hand", form.Title.Value)
	assert.Equal(t, SourceUser, form.Title.Source)
	// Untouched fields still receive the fetched values.
	assert.Equal(t, "Scraped desc", form.Description.Value)
}

func TestFormSession_NewURLSupersedesPendingRun(t *testing.T) {
	first := &blockingEnricher{
		kind: domain.TypeArticle,
		meta: enrich.Metadata{Title: "Stale"},
	}
	release := first.block()
	s := sessionWith(t, first)

	s.SetURL("https://example.com/old")
	time.Sleep(3 * formDebounce)

	// Second edit bumps the sequence; the first run must be dropped.
	first.mu.Lock()
	first.meta = enrich.Metadata{Title: "Fresh"}
	first.blocked = nil
	first.mu.Unlock()
	s.SetURL("https://example.com/new")
	close(release)

	waitForState(t, s, StateReady)

	_, form := s.Snapshot()
	assert.Equal(t, "Fresh", form.Title.Value)
}

func TestFormSession_ClearingURLGoesIdle(t *testing.T) {
	s := sessionWith(t, &stubEnricher{kind: domain.TypeArticle})

	s.SetURL("https://example.com/post")
	s.SetURL("")

	state, _ := s.Snapshot()
	assert.Equal(t, StateIdle, state)
}

func TestFormSession_AwaitsAPIKeyThenRetries(t *testing.T) {
	enricher := &stubEnricher{
		kind: domain.TypeYouTube,
		meta: enrich.Metadata{Title: "Video", ImageURL: "https://img/v.jpg", NeedsAPIKey: true},
	}
	s := sessionWith(t, enricher)
	s.SetType(domain.TypeYouTube)

	s.SetURL("https://youtu.be/abc12345678")
	waitForState(t, s, StateAwaitingAPIKey)

	_, form := s.Snapshot()
	assert.Equal(t, "Video", form.Title.Value)

	// Providing the key reruns enrichment, which now yields a description.
	enricher.meta = enrich.Metadata{Title: "Video", Description: "From Data API"}
	s.ProvideAPIKey("secret")
	waitForState(t, s, StateReady)

	_, form = s.Snapshot()
	assert.Equal(t, "From Data API", form.Description.Value)
}

func TestFormSession_SubmitResetsOnSuccess(t *testing.T) {
	s := sessionWith(t, &stubEnricher{
		kind: domain.TypeArticle,
		meta: enrich.Metadata{Title: "Scraped"},
	})

	s.SetURL("https://example.com/post")
	waitForState(t, s, StateReady)

	article, err := s.Submit(context.Background(), "morgan")
	require.NoError(t, err)
	assert.Equal(t, "Scraped", article.Title)
	assert.Equal(t, "morgan", article.Author)

	state, form := s.Snapshot()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, form.URL)
	assert.Empty(t, form.Title.Value)
}

func TestFormSession_SubmitFailureKeepsForm(t *testing.T) {
	s := sessionWith(t, &stubEnricher{kind: domain.TypeArticle})

	s.SetURL("https://example.com/post")
	waitForState(t, s, StateReady)

	// No title from anywhere: the submission is rejected and the form
	// stays editable.
	_, err := s.Submit(context.Background(), "morgan")
	require.ErrorIs(t, err, ErrValidation)

	state, form := s.Snapshot()
	assert.Equal(t, StateReady, state)
	assert.Equal(t, "https://example.com/post", form.URL)
}
