package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresSavePage(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pages (url, status_code)")).
		WithArgs("/a.html", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := p.SavePage(context.Background(), "/a.html", 200)
	if err != nil {
		t.Fatalf("save page: %v", err)
	}
	if id != 42 {
		t.Fatalf("want id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresSetTitleEscapes(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pages SET title")).
		WithArgs(int64(3), "ab").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := p.SetTitle(context.Background(), 3, "a\x00b"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresSetDescriptionMissingPage(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pages SET description")).
		WithArgs(int64(9), "text").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.SetDescription(context.Background(), 9, "text")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresSetTags(t *testing.T) {
	p, mock := newMock(t)
	tags := []byte{'C', 'a', 'f', 0xE9}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags (page_id, keywords)")).
		WithArgs(int64(5), tags).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := p.SetTags(context.Background(), 5, tags); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresLinks(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_links (source_id, url)")).
		WithArgs(int64(1), "/y.html").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO external_links (url)")).
		WithArgs("http://other.com/p").
		WillReturnResult(sqlmock.NewResult(1, 1))

	ctx := context.Background()
	if err := p.InsertUniqueLocalLink(ctx, 1, "/y.html"); err != nil {
		t.Fatalf("local link: %v", err)
	}
	if err := p.InsertExternalLink(ctx, "http://other.com/p"); err != nil {
		t.Fatalf("external link: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreFailure(t *testing.T) {
	p, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_links")).
		WillReturnError(boom)

	err := p.InsertUniqueLocalLink(context.Background(), 1, "/x")
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped store error, got %v", err)
	}
}

func TestPostgresHasPage(t *testing.T) {
	p, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM pages WHERE id = $1)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := p.HasPage(context.Background(), 7)
	if err != nil {
		t.Fatalf("has page: %v", err)
	}
	if ok {
		t.Fatal("page 7 should not exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
