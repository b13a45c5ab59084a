package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryPages(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.SavePage(ctx, "/a", 200)
	if err != nil || id != 1 {
		t.Fatalf("save page: id=%d err=%v", id, err)
	}
	again, _ := m.SavePage(ctx, "/a", 304)
	if again != id {
		t.Fatalf("same url must keep its id, got %d", again)
	}
	if err := m.SetTitle(ctx, id, "T\x00itle"); err != nil {
		t.Fatal(err)
	}
	p, _ := m.Page(id)
	if p.Title != "Title" || p.StatusCode != 304 {
		t.Fatalf("unexpected page %+v", p)
	}
	if err := m.SetDescription(ctx, 99, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryUniqueLocalLinksConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for w := 1; w <= 8; w++ {
		if _, err := m.SavePage(ctx, fmt.Sprintf("/src%d", w), 200); err != nil {
			t.Fatal(err)
		}
	}
	var wg sync.WaitGroup
	for w := 1; w <= 8; w++ {
		wg.Add(1)
		go func(src int64) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = m.InsertUniqueLocalLink(ctx, src, fmt.Sprintf("/p%d.html", i))
			}
		}(int64(w))
	}
	wg.Wait()
	if got := len(m.LocalLinks()); got != 50 {
		t.Fatalf("want 50 unique links, got %d", got)
	}
}

func TestMemoryExternalLinksDeduplicated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.InsertExternalLink(ctx, "http://a.com/")
	_ = m.InsertExternalLink(ctx, "http://b.com/")
	_ = m.InsertExternalLink(ctx, "http://a.com/")
	ext := m.ExternalLinks()
	if len(ext) != 2 || ext[0] != "http://a.com/" || ext[1] != "http://b.com/" {
		t.Fatalf("unexpected external links %v", ext)
	}
}

func TestMemoryLocalLinkNeedsSourcePage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.InsertUniqueLocalLink(ctx, 7, "/b.html"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if l := m.LocalLinks(); len(l) != 0 {
		t.Fatalf("link bound to missing page was stored: %+v", l)
	}
	if ok, _ := m.HasPage(ctx, 7); ok {
		t.Fatal("page 7 was never saved")
	}
	id, _ := m.SavePage(ctx, "/a", 200)
	if ok, _ := m.HasPage(ctx, id); !ok {
		t.Fatalf("page %d should exist", id)
	}
}

func TestMemoryTags(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, _ := m.SavePage(ctx, "/a", 200)
	if err := m.SetTags(ctx, id, []byte{'A', 0xA4}); err != nil {
		t.Fatal(err)
	}
	tag, ok := m.Tags(id)
	if !ok || tag.PageID != id || string(tag.Keywords) != "A\xa4" {
		t.Fatalf("unexpected tag %+v", tag)
	}
}
