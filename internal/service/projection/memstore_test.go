package projection

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// memStore is an in-memory read model store with the same upsert semantics
// as the PostgreSQL repositories.
type memStore struct {
	mu       sync.Mutex
	cases    map[string]domain.Case
	slides   map[string]domain.Slide
	previews map[string]domain.PreviewAsset
}

func newMemStore() *memStore {
	return &memStore{
		cases:    map[string]domain.Case{},
		slides:   map[string]domain.Slide{},
		previews: map[string]domain.PreviewAsset{},
	}
}

type memCases struct{ *memStore }
type memSlides struct{ *memStore }
type memPreviews struct{ *memStore }

func (m memCases) Upsert(_ context.Context, c domain.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.cases[c.CaseID]; ok {
		c.CreatedAt = old.CreatedAt
	}
	m.cases[c.CaseID] = c
	return nil
}

func (m memSlides) Upsert(_ context.Context, s domain.Slide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.slides[s.SlideID]
	if !ok {
		s.HasPreview = false
		m.slides[s.SlideID] = s
		return nil
	}
	if s.CaseID != nil {
		old.CaseID = s.CaseID
	}
	if s.Filename != "" {
		old.Filename = s.Filename
	}
	if s.Width > 0 {
		old.Width = s.Width
	}
	if s.Height > 0 {
		old.Height = s.Height
	}
	if s.MicronsPerPixel > 0 {
		old.MicronsPerPixel = s.MicronsPerPixel
	}
	if s.Scanner != nil {
		old.Scanner = s.Scanner
	}
	old.UpdatedAt = s.UpdatedAt
	old.EventRef = s.EventRef
	m.slides[s.SlideID] = old
	return nil
}

func (m memSlides) GetByID(_ context.Context, id string) (*domain.Slide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slides[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m memSlides) ListWithoutPreview(_ context.Context, caseID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.slides {
		if s.CaseID != nil && *s.CaseID == caseID && !s.HasPreview {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m memSlides) MarkHasPreview(_ context.Context, id string, ref domain.EventRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slides[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.HasPreview = true
	s.EventRef = ref
	m.slides[id] = s
	return nil
}

func (m memPreviews) Upsert(_ context.Context, a domain.PreviewAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.previews[a.SlideID]; ok {
		a.CreatedAt = old.CreatedAt
	}
	m.previews[a.SlideID] = a
	return nil
}

func newMemEngine(store *memStore) *Engine {
	return NewEngine(discardLogger(), memCases{store}, memSlides{store}, memPreviews{store}, passthroughTx(), nil)
}

func TestEngine_EndToEndScenario(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	engine := newMemEngine(store)
	ctx := context.Background()

	res := engine.Apply(ctx, event(domain.EventTypeCaseUpserted, map[string]any{
		"case_id": "case-1", "title": "A", "patient_ref": "P-1",
	}))
	require.Equal(t, OutcomeApplied, res.Outcome, res.Reason)
	assert.Equal(t, domain.CaseStatusActive, store.cases["case-1"].Status)

	res = engine.Apply(ctx, event(domain.EventTypeSlideRegistered, map[string]any{
		"slide_id": "slide-1", "case_id": "case-1", "filename": "slide-1.svs",
		"width": 1000, "height": 800, "mpp": 0.25,
	}))
	require.Equal(t, OutcomeApplied, res.Outcome, res.Reason)
	require.Contains(t, store.slides, "slide-1")
	assert.False(t, store.slides["slide-1"].HasPreview)

	res = engine.Apply(ctx, event(domain.EventTypePreviewPublished, previewPayload("slide-1", "case-1")))
	require.Equal(t, OutcomeApplied, res.Outcome, res.Reason)
	assert.True(t, store.slides["slide-1"].HasPreview)
	require.Contains(t, store.previews, "slide-1")
	assert.Equal(t, "previews/slide-1/tiles/", store.previews["slide-1"].TilesPrefix)
}

func TestEngine_ReapplyIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	engine := newMemEngine(store)
	ctx := context.Background()

	events := []domain.Event{
		event(domain.EventTypeCaseUpserted, map[string]any{"case_id": "c", "title": "T", "patient_ref": "P"}),
		event(domain.EventTypeSlideRegistered, map[string]any{
			"slide_id": "s", "case_id": "c", "filename": "s.svs", "width": 10, "height": 10, "mpp": 1,
		}),
		event(domain.EventTypePreviewPublished, previewPayload("s", "c")),
	}
	for _, ev := range events {
		require.True(t, engine.Apply(ctx, ev).OK())
	}
	snapshot := func() (domain.Case, domain.Slide, domain.PreviewAsset) {
		return store.cases["c"], store.slides["s"], store.previews["s"]
	}
	c1, s1, p1 := snapshot()

	for _, ev := range events {
		require.True(t, engine.Apply(ctx, ev).OK())
	}
	c2, s2, p2 := snapshot()

	assert.Equal(t, c1, c2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, p1, p2)
}

func TestEngine_SlideMergeKeepsScanner_CaseReplaceOverwrites(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	engine := newMemEngine(store)
	ctx := context.Background()

	engine.Apply(ctx, event(domain.EventTypeSlideRegistered, map[string]any{
		"slide_id": "s", "filename": "s.svs", "width": 10, "height": 20, "mpp": 0.5, "scanner": "GT450",
	}))
	engine.Apply(ctx, event(domain.EventTypeSlideRegistered, map[string]any{
		"slide_id": "s", "case_id": "c", "filename": "s.svs", "width": 10, "height": 20, "mpp": 0.5,
	}))

	s := store.slides["s"]
	require.NotNil(t, s.Scanner)
	assert.Equal(t, "GT450", *s.Scanner, "omitted scanner means unknown, not null")
	assert.Equal(t, "c", *s.CaseID)

	engine.Apply(ctx, event(domain.EventTypeCaseUpserted, map[string]any{
		"case_id": "c", "title": "First", "patient_ref": "P", "status": "archived",
	}))
	engine.Apply(ctx, event(domain.EventTypeCaseUpserted, map[string]any{
		"case_id": "c", "title": "Second", "patient_ref": "P",
	}))

	assert.Equal(t, "Second", store.cases["c"].Title)
	assert.Equal(t, domain.CaseStatusActive, store.cases["c"].Status, "omitted status defaults and overwrites")
}

func TestEngine_PreviewBeforeSlide_SkipsThenLinksAfterRegistration(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	engine := newMemEngine(store)
	ctx := context.Background()

	preview := event(domain.EventTypePreviewPublished, previewPayload("slide-7", "case-7"))
	res := engine.Apply(ctx, preview)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.Empty(t, store.slides, "no placeholder slide is created")
	assert.Empty(t, store.previews)

	engine.Apply(ctx, event(domain.EventTypeSlideRegistered, map[string]any{
		"slide_id": "slide-7", "case_id": "case-7", "filename": "f", "width": 1, "height": 1, "mpp": 1,
	}))

	// Replaying the preview (e.g. during a rebuild) now succeeds.
	res = engine.Apply(ctx, preview)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.True(t, store.slides["slide-7"].HasPreview)
}
