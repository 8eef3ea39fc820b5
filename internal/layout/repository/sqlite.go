package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"keycap-layout/internal/layout/layoutfile"
	"keycap-layout/internal/layout/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("layout not found")

// Фиксированная ширина, чтобы строки сортировались как время.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create сохраняет новую раскладку и возвращает её id.
func (r *Repository) Create(ctx context.Context, name string, layout *models.Layout) (string, error) {
	id := uuid.NewString()
	now := r.now().UTC()

	payload, err := r.encode(layout, now)
	if err != nil {
		return "", err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO layouts (id, name, key_count, payload, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, id, name, len(layout.Keys), payload, formatTime(now), formatTime(now))
	if err != nil {
		return "", fmt.Errorf("insert layout: %w", err)
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Layout, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT payload
        FROM layouts
        WHERE id = ?
    `, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var layout models.Layout
	if err := json.Unmarshal([]byte(payload), &layout); err != nil {
		return nil, fmt.Errorf("decode stored layout: %w", err)
	}
	return &layout, nil
}

func (r *Repository) List(ctx context.Context) ([]models.LayoutSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, key_count, created_at, updated_at
        FROM layouts
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LayoutSummary{}
	for rows.Next() {
		var s models.LayoutSummary
		var created, updated string
		if err := rows.Scan(&s.ID, &s.Name, &s.KeyCount, &created, &updated); err != nil {
			return nil, err
		}
		s.CreatedAt = parseTime(created)
		s.UpdatedAt = parseTime(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update перезаписывает раскладку целиком.
func (r *Repository) Update(ctx context.Context, id string, layout *models.Layout) error {
	now := r.now().UTC()

	payload, err := r.encode(layout, now)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE layouts
        SET key_count = ?, payload = ?, updated_at = ?
        WHERE id = ?
    `, len(layout.Keys), payload, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}
	return expectOne(res)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return expectOne(res)
}

// ============================================================
// Helpers
// ============================================================

func (r *Repository) encode(layout *models.Layout, now time.Time) (string, error) {
	if layout == nil {
		return "", fmt.Errorf("layout is nil")
	}
	// Работаем с копией: раскладка вызывающего не меняется.
	out := *layout
	out.SavedAt = now
	if err := layoutfile.Validate(&out); err != nil {
		return "", err
	}

	data, err := json.Marshal(&out)
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}
	return string(data), nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
