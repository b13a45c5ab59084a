package links

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crawlextract/internal/models"
	"crawlextract/internal/store"
)

type call struct {
	sourceID int64
	url      string
	kind     models.LinkKind
}

type recordingSink struct {
	calls   []call
	failOn  string
	failErr error
}

func (r *recordingSink) InsertUniqueLocalLink(_ context.Context, sourceID int64, url string) error {
	if url == r.failOn {
		return r.failErr
	}
	r.calls = append(r.calls, call{sourceID, url, models.LinkLocal})
	return nil
}

func (r *recordingSink) InsertExternalLink(_ context.Context, url string) error {
	if url == r.failOn {
		return r.failErr
	}
	r.calls = append(r.calls, call{0, url, models.LinkExternal})
	return nil
}

func TestExtractLocalDotSegments(t *testing.T) {
	sink := &recordingSink{}
	rep, err := New(sink, nil, nil).Extract(context.Background(), 7, "http://h/a/b.html", `<a href="/x/../y.html">`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(sink.calls) != 1 {
		t.Fatalf("want 1 link, got %+v", sink.calls)
	}
	want := call{7, "/y.html", models.LinkLocal}
	if sink.calls[0] != want {
		t.Fatalf("got %+v, want %+v", sink.calls[0], want)
	}
	if len(rep.Links) != 1 || rep.Links[0].SourceID != 7 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestExtractExternal(t *testing.T) {
	sink := &recordingSink{}
	_, err := New(sink, nil, nil).Extract(context.Background(), 7, "http://h/", `<a href="http://other.com/p">`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := call{0, "http://other.com/p", models.LinkExternal}
	if len(sink.calls) != 1 || sink.calls[0] != want {
		t.Fatalf("got %+v, want %+v", sink.calls, want)
	}
}

func TestExtractOrderAndNormalization(t *testing.T) {
	body := `<html><head>
<link HREF="style.css?v=2">
<script src="/js/app.js#x"></script>
</head><body>
<a href="  sub/page one.html">one</a>
<a href="WWW.Example.org/q?a=b">ext</a>
<a href="javascript:void(0)">js</a>
<a href="#top">top</a>
<a href=" ">blank</a>
<img SRC="../img/logo.png">
<a href='single-quoted.html'>skipped</a>
</body></html>`

	sink := &recordingSink{}
	rep, err := New(sink, nil, nil).Extract(context.Background(), 3, "http://h/docs/guide/index.html", body)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []call{
		{3, "/docs/guide/style.css", models.LinkLocal},
		{3, "/docs/guide/sub/page+one.html", models.LinkLocal},
		{0, "WWW.Example.org/q%3Fa%3Db", models.LinkExternal},
		{3, "/docs/guide/", models.LinkLocal},
		{3, "/js/app.js", models.LinkLocal},
		{3, "/docs/img/logo.png", models.LinkLocal},
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %d calls %+v, want %d", len(sink.calls), sink.calls, len(want))
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("call %d: got %+v, want %+v", i, sink.calls[i], want[i])
		}
	}
	if rep.Rejected != 1 {
		t.Fatalf("want 1 rejected link, got %d", rep.Rejected)
	}
}

func TestExtractNeverForwardsParens(t *testing.T) {
	body := `<a href="/a(b).html"><a href="http://x.com/f(1)"><img src="ok.png"><a href="/c)">`
	sink := &recordingSink{}
	rep, _ := New(sink, nil, nil).Extract(context.Background(), 1, "/", body)
	for _, c := range sink.calls {
		if strings.ContainsAny(c.url, "()") {
			t.Fatalf("paren reached the sink: %q", c.url)
		}
	}
	if len(sink.calls) != 1 || sink.calls[0].url != "/ok.png" {
		t.Fatalf("unexpected calls %+v", sink.calls)
	}
	if rep.Rejected != 3 {
		t.Fatalf("want 3 rejected, got %d", rep.Rejected)
	}
}

func TestExtractContinuesAfterSinkFailure(t *testing.T) {
	boom := errors.New("store down")
	sink := &recordingSink{failOn: "/bad.html", failErr: boom}
	body := `<a href="/bad.html"><a href="/good.html">`
	rep, err := New(sink, nil, nil).Extract(context.Background(), 1, "/", body)
	if !errors.Is(err, boom) {
		t.Fatalf("want store failure, got %v", err)
	}
	if len(rep.Links) != 1 || rep.Links[0].URL != "/good.html" {
		t.Fatalf("later links must still be forwarded, got %+v", rep.Links)
	}
}

func TestExtractDeduplicatesThroughSink(t *testing.T) {
	mem := store.NewMemory()
	id, err := mem.SavePage(context.Background(), "http://h/index.html", 200)
	if err != nil {
		t.Fatal(err)
	}
	body := `<a href="/a/c/../b.html"><a href="/b.html#frag"><a href="b.html?x=1">`
	_, err = New(mem, nil, nil).Extract(context.Background(), id, "http://h/index.html", body)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got := mem.LocalLinks()
	if len(got) != 2 {
		t.Fatalf("want 2 unique links, got %+v", got)
	}
	if got[0].URL != "/a/b.html" || got[1].URL != "/b.html" {
		t.Fatalf("unexpected links %+v", got)
	}
}
