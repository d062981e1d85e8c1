package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/yxzhu/newsflash/app/scorer"
)

var _ NewsRepository = (*SQLNewsRepository)(nil)

var recordColumns = []string{
	"id", "title", "content", "publish_time", "author", "source", "url",
	"language", "category", "tags", "factors", "created_at", "updated_at",
}

// SQLNewsRepository persists news records in SQLite.
type SQLNewsRepository struct {
	db *DB
}

func NewSQLNewsRepository(db *DB) *SQLNewsRepository {
	return &SQLNewsRepository{db: db}
}

// Create stores a new record, assigning its ID and timestamps. Source and
// URL are required; their absence is rejected before any write.
func (r *SQLNewsRepository) Create(record Record) (*Record, error) {
	if record.Source == "" {
		return nil, &ValidationError{Field: "source"}
	}
	if record.URL == "" {
		return nil, &ValidationError{Field: "url"}
	}

	record.ID = uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Tags == nil {
		record.Tags = []string{}
	}

	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	factors, score, err := encodeFactors(record.Factors)
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(`
		INSERT INTO news_items (
			id, title, content, publish_time, author, source, url,
			language, category, tags, factors, score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Title, record.Content, nullable(record.PublishTime),
		record.Author, record.Source, record.URL, record.Language,
		record.Category, string(tags), factors, score,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	return &record, nil
}

// Get returns the record with the given ID or ErrNotFound.
func (r *SQLNewsRepository) Get(id string) (*Record, error) {
	query, args, err := r.selectRecords().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	record, err := scanRecord(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// List returns records matching the filters, sorted by publish time
// descending with records lacking a publish time last.
func (r *SQLNewsRepository) List(opts ListOptions) ([]Record, error) {
	qb := r.selectRecords()

	if opts.Category != "" {
		qb = qb.Where(sq.Eq{"category": opts.Category})
	}
	if opts.Source != "" {
		qb = qb.Where(sq.Eq{"source": opts.Source})
	}
	if opts.Keyword != "" {
		pattern := "%" + strings.ToLower(opts.Keyword) + "%"
		qb = qb.Where(sq.Or{
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(content)": pattern},
		})
	}

	qb = qb.OrderBy("publish_time IS NULL", "publish_time DESC", "created_at DESC")
	if opts.Limit > 0 {
		qb = qb.Limit(uint64(opts.Limit))
	}
	if opts.Skip > 0 {
		qb = qb.Offset(uint64(opts.Skip))
	}

	return r.queryRecords(qb)
}

// Update merges a partial patch into the stored record inside a single
// transaction so concurrent mutations of the same ID serialize. The update
// timestamp is always refreshed.
func (r *SQLNewsRepository) Update(id string, patch Patch) (*Record, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := r.selectRecords().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	record, err := scanRecord(tx.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	applyPatch(record, patch)
	if record.Source == "" {
		return nil, &ValidationError{Field: "source"}
	}
	if record.URL == "" {
		return nil, &ValidationError{Field: "url"}
	}
	record.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	factors, score, err := encodeFactors(record.Factors)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE news_items SET
			title = ?, content = ?, publish_time = ?, author = ?, source = ?,
			url = ?, language = ?, category = ?, tags = ?, factors = ?,
			score = ?, updated_at = ?
		WHERE id = ?
	`, record.Title, record.Content, nullable(record.PublishTime), record.Author,
		record.Source, record.URL, record.Language, record.Category,
		string(tags), factors, score, record.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return record, nil
}

// Delete removes the record with the given ID or returns ErrNotFound.
func (r *SQLNewsRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM news_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TopScored returns scored records at or above minScore, best first.
func (r *SQLNewsRepository) TopScored(minScore float64, limit int) ([]Record, error) {
	qb := r.selectRecords().
		Where("score IS NOT NULL").
		Where(sq.GtOrEq{"score": minScore}).
		OrderBy("score DESC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	return r.queryRecords(qb)
}

// ListUnscored returns records without significance factors, oldest first,
// for batch rescoring.
func (r *SQLNewsRepository) ListUnscored(limit int) ([]Record, error) {
	qb := r.selectRecords().
		Where("score IS NULL").
		OrderBy("created_at ASC")
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}

	return r.queryRecords(qb)
}

// GetStats summarizes record counts by category and source plus the most
// recently published record.
func (r *SQLNewsRepository) GetStats() (*Stats, error) {
	stats := &Stats{
		Categories: make(map[string]int),
		Sources:    make(map[string]int),
	}

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM news_items`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	if err := r.countBy("category", stats.Categories); err != nil {
		return nil, err
	}
	if err := r.countBy("source", stats.Sources); err != nil {
		return nil, err
	}

	latest, err := r.queryRecords(r.selectRecords().
		Where("publish_time IS NOT NULL").
		OrderBy("publish_time DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 {
		stats.Latest = &latest[0]
	}

	return stats, nil
}

func (r *SQLNewsRepository) countBy(column string, into map[string]int) error {
	rows, err := r.db.Query(fmt.Sprintf(
		`SELECT %s, COUNT(*) FROM news_items GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("failed to count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		into[key] = count
	}
	return rows.Err()
}

func (r *SQLNewsRepository) selectRecords() sq.SelectBuilder {
	return sq.Select(recordColumns...).Column("score").From("news_items")
}

func (r *SQLNewsRepository) queryRecords(qb sq.SelectBuilder) ([]Record, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var publishTime, factors sql.NullString
	var tags string
	var score sql.NullFloat64

	err := row.Scan(&record.ID, &record.Title, &record.Content, &publishTime,
		&record.Author, &record.Source, &record.URL, &record.Language,
		&record.Category, &tags, &factors, &record.CreatedAt,
		&record.UpdatedAt, &score)
	if err != nil {
		return nil, err
	}

	record.PublishTime = publishTime.String
	if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if factors.Valid {
		var f scorer.Factors
		if err := json.Unmarshal([]byte(factors.String), &f); err != nil {
			return nil, fmt.Errorf("failed to decode factors: %w", err)
		}
		record.Factors = &f
	}

	return &record, nil
}

func applyPatch(record *Record, patch Patch) {
	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Content != nil {
		record.Content = *patch.Content
	}
	if patch.PublishTime != nil {
		record.PublishTime = *patch.PublishTime
	}
	if patch.Author != nil {
		record.Author = *patch.Author
	}
	if patch.Source != nil {
		record.Source = *patch.Source
	}
	if patch.URL != nil {
		record.URL = *patch.URL
	}
	if patch.Language != nil {
		record.Language = *patch.Language
	}
	if patch.Category != nil {
		record.Category = *patch.Category
	}
	if patch.Tags != nil {
		record.Tags = *patch.Tags
	}
	if patch.Factors != nil {
		record.Factors = patch.Factors
	}
}

func encodeFactors(f *scorer.Factors) (factors any, score any, err error) {
	if f == nil {
		return nil, nil, nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode factors: %w", err)
	}
	return string(data), f.Score, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
