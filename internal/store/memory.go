package store

import (
	"context"
	"sync"

	"crawlextract/internal/models"
)

// Memory is an in-process Store used by the CLI dry runs and tests.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	pages    map[int64]*models.Page
	byURL    map[string]int64
	tags     map[int64]models.Tag
	local    map[string]int64
	localSeq []models.Link
	extSeen  map[string]struct{}
	external []string
}

func NewMemory() *Memory {
	return &Memory{
		pages:   make(map[int64]*models.Page),
		byURL:   make(map[string]int64),
		tags:    make(map[int64]models.Tag),
		local:   make(map[string]int64),
		extSeen: make(map[string]struct{}),
	}
}

func (m *Memory) SavePage(_ context.Context, url string, statusCode int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byURL[url]; ok {
		m.pages[id].StatusCode = statusCode
		return id, nil
	}
	m.nextID++
	m.pages[m.nextID] = &models.Page{ID: m.nextID, URL: url, StatusCode: statusCode}
	m.byURL[url] = m.nextID
	return m.nextID, nil
}

func (m *Memory) HasPage(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pages[id]
	return ok, nil
}

func (m *Memory) page(id int64) (*models.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *Memory) SetTitle(_ context.Context, pageID int64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.page(pageID)
	if err != nil {
		return err
	}
	p.Title = escapeText(title)
	return nil
}

func (m *Memory) SetDescription(_ context.Context, pageID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.page(pageID)
	if err != nil {
		return err
	}
	p.Description = escapeText(text)
	return nil
}

func (m *Memory) SetTags(_ context.Context, pageID int64, tags []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.page(pageID); err != nil {
		return err
	}
	m.tags[pageID] = models.Tag{PageID: pageID, Keywords: append([]byte(nil), tags...)}
	return nil
}

func (m *Memory) InsertUniqueLocalLink(_ context.Context, sourceID int64, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.page(sourceID); err != nil {
		return err
	}
	if _, ok := m.local[url]; ok {
		return nil
	}
	m.local[url] = sourceID
	m.localSeq = append(m.localSeq, models.Link{SourceID: sourceID, URL: url, Kind: models.LinkLocal})
	return nil
}

func (m *Memory) InsertExternalLink(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.extSeen[url]; ok {
		return nil
	}
	m.extSeen[url] = struct{}{}
	m.external = append(m.external, url)
	return nil
}

func (m *Memory) Page(id int64) (models.Page, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[id]
	if !ok {
		return models.Page{}, false
	}
	return *p, true
}

func (m *Memory) Tags(id int64) (models.Tag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	return t, ok
}

// LocalLinks returns unique local links in first-insert order.
func (m *Memory) LocalLinks() []models.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Link(nil), m.localSeq...)
}

func (m *Memory) ExternalLinks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.external...)
}

func (m *Memory) Close() error { return nil }
