// Package archive stores walked pages in SQLite, keeping header order so a
// walk can be replayed exactly as it was received.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
)

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	walk_id        TEXT    NOT NULL,
	seq            INTEGER NOT NULL,
	url            TEXT    NOT NULL,
	status_code    INTEGER NOT NULL,
	status_message TEXT    NOT NULL,
	body           TEXT    NOT NULL,
	fetched_at     TIMESTAMP NOT NULL,
	UNIQUE (walk_id, seq)
);
CREATE TABLE IF NOT EXISTS page_headers (
	page_id  INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	value    TEXT    NOT NULL,
	PRIMARY KEY (page_id, position)
);
`

// ErrSaveFailed is wrapped by every Recorder error caused by the archive
// rather than the delegate.
var ErrSaveFailed = errors.New("archive save failed")

// Page is one archived response.
type Page struct {
	WalkID    string
	Seq       int
	URL       string
	Response  *http.Response
	FetchedAt time.Time
}

// Archive is a SQLite backed page store.
type Archive struct {
	db           *sql.DB
	queryTimeout time.Duration
	now          func() time.Time
}

// Open opens (and creates if needed) the archive at connectionString.
// Accepted forms: sqlite://path, sqlite:path or a bare file path.
func Open(connectionString string) (*Archive, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	// one writer, and :memory: databases are per connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}

	return &Archive{
		db:           db,
		queryTimeout: 30 * time.Second,
		now:          time.Now,
	}, nil
}

// NewWalkID returns a fresh identifier grouping the pages of one walk.
func NewWalkID() string {
	return uuid.New().String()
}

// Close closes the database connection
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Save stores resp as page seq of walkID.
func (a *Archive) Save(walkID string, seq int, pageURL string, resp *http.Response) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.queryTimeout)
	defer cancel()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pages (walk_id, seq, url, status_code, status_message, body, fetched_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		walkID, seq, pageURL, resp.StatusCode(), resp.StatusMessage(), resp.Body(), a.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	pageID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}

	position := 0
	for h := range resp.Headers().All() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO page_headers (page_id, position, name, value) VALUES (?, ?, ?, ?)`,
			pageID, position, h.Name, h.Value,
		); err != nil {
			return fmt.Errorf("insert header: %w", err)
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Pages returns the pages of walkID ordered by sequence number.
func (a *Archive) Pages(walkID string) ([]*Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.queryTimeout)
	defer cancel()

	rows, err := a.db.QueryContext(ctx,
		`SELECT id, seq, url, status_code, status_message, body, fetched_at FROM pages WHERE walk_id = ? ORDER BY seq`,
		walkID,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	type row struct {
		id      int64
		page    *Page
		code    int
		message string
		body    string
	}
	var found []row
	for rows.Next() {
		r := row{page: &Page{WalkID: walkID}}
		if err := rows.Scan(&r.id, &r.page.Seq, &r.page.URL, &r.code, &r.message, &r.body, &r.page.FetchedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	pages := make([]*Page, 0, len(found))
	for _, r := range found {
		headers, err := a.headers(ctx, r.id)
		if err != nil {
			return nil, err
		}
		r.page.Response = http.NewResponse(r.code, r.message, headers, r.body)
		pages = append(pages, r.page)
	}
	return pages, nil
}

func (a *Archive) headers(ctx context.Context, pageID int64) (http.Headers, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT name, value FROM page_headers WHERE page_id = ? ORDER BY position`,
		pageID,
	)
	if err != nil {
		return http.Headers{}, fmt.Errorf("query headers: %w", err)
	}
	defer rows.Close()

	var list []http.Header
	for rows.Next() {
		var h http.Header
		if err := rows.Scan(&h.Name, &h.Value); err != nil {
			return http.Headers{}, fmt.Errorf("failed to scan header: %w", err)
		}
		list = append(list, h)
	}
	if err := rows.Err(); err != nil {
		return http.Headers{}, fmt.Errorf("row iteration error: %w", err)
	}
	return http.NewHeaders(list...), nil
}

// Recorder is an http.Getter that saves every successful response it
// forwards under one walk id.
type Recorder struct {
	delegate http.Getter
	archive  *Archive
	walkID   string
	seq      int
}

// NewRecorder archives pages fetched through delegate. Sequence numbers
// start at first, so callers that saved the initial page themselves pass 1.
func NewRecorder(delegate http.Getter, archive *Archive, walkID string, first int) *Recorder {
	return &Recorder{delegate: delegate, archive: archive, walkID: walkID, seq: first}
}

func (r *Recorder) Get(u *url.URL) (*http.Response, error) {
	resp, err := r.delegate.Get(u)
	if err != nil {
		return nil, err
	}
	if err := r.archive.Save(r.walkID, r.seq, u.String(), resp); err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrSaveFailed, r.seq, err)
	}
	r.seq++
	return resp, nil
}

// parseConnectionString strips the sqlite scheme, if any.
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	switch {
	case connStr == "":
		return "", fmt.Errorf("empty archive connection string")
	case strings.HasPrefix(connStr, "sqlite://"):
		return strings.TrimPrefix(connStr, "sqlite://"), nil
	case strings.HasPrefix(connStr, "sqlite:"):
		return strings.TrimPrefix(connStr, "sqlite:"), nil
	case strings.Contains(connStr, "://"):
		return "", fmt.Errorf("unsupported archive scheme: %s", connStr)
	default:
		return connStr, nil
	}
}
