package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/jstiltner/document-understanding/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS field_definitions (
	name               TEXT PRIMARY KEY,
	display_name       TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	field_type         TEXT NOT NULL DEFAULT 'text',
	is_required        BOOLEAN NOT NULL DEFAULT false,
	validation_pattern TEXT NOT NULL DEFAULT '',
	extraction_hints   JSONB,
	is_active          BOOLEAN NOT NULL DEFAULT true,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_field_definitions_active ON field_definitions(is_active);

CREATE TABLE IF NOT EXISTS documents (
	id                TEXT PRIMARY KEY,
	filename          TEXT NOT NULL,
	original_filename TEXT NOT NULL DEFAULT '',
	file_path         TEXT NOT NULL DEFAULT '',
	mime_type         TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'pending',
	uploaded_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	ocr_text          TEXT,
	ocr_confidence    DOUBLE PRECISION,
	ocr_engine        TEXT,
	ocr_at            TIMESTAMPTZ,
	extracted_fields  JSONB,
	confidence_scores JSONB,
	provider          TEXT,
	model             TEXT,
	model_version     TEXT,
	requires_review   BOOLEAN NOT NULL DEFAULT false,
	error             TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC);

CREATE TABLE IF NOT EXISTS audit_log (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	action      TEXT NOT NULL,
	details     JSONB,
	user_id     TEXT,
	timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_document_id ON audit_log(document_id);

CREATE TABLE IF NOT EXISTS human_feedback (
	id                  TEXT PRIMARY KEY,
	document_id         TEXT NOT NULL,
	field_name          TEXT NOT NULL,
	original_value      TEXT,
	corrected_value     TEXT,
	original_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	feedback_type       TEXT NOT NULL,
	reviewer_id         TEXT NOT NULL,
	model_version       TEXT NOT NULL,
	ocr_context         TEXT,
	reward_score        DOUBLE PRECISION NOT NULL,
	review_timestamp    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_human_feedback_model_field ON human_feedback(model_version, field_name);
CREATE INDEX IF NOT EXISTS idx_human_feedback_timestamp ON human_feedback(review_timestamp DESC);

CREATE TABLE IF NOT EXISTS model_performance (
	model_version       TEXT NOT NULL,
	field_name          TEXT NOT NULL,
	total_predictions   BIGINT NOT NULL DEFAULT 0,
	correct_predictions BIGINT NOT NULL DEFAULT 0,
	false_positives     BIGINT NOT NULL DEFAULT 0,
	false_negatives     BIGINT NOT NULL DEFAULT 0,
	avg_confidence      DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_reward          DOUBLE PRECISION NOT NULL DEFAULT 0,
	precision           DOUBLE PRECISION NOT NULL DEFAULT 0,
	recall              DOUBLE PRECISION NOT NULL DEFAULT 0,
	f1_score            DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_updated        TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (model_version, field_name)
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Field definitions

func (s *PostgresStore) CreateFieldDefinition(ctx context.Context, def model.FieldDefinition) error {
	hintsJSON, err := json.Marshal(def.Hints)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal hints")
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO field_definitions
		 (name, display_name, description, field_type, is_required, validation_pattern, extraction_hints, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		def.Name, def.DisplayName, def.Description, string(def.Type),
		def.Required, def.ValidationPattern, hintsJSON, def.Active, now, now,
	)
	return eris.Wrapf(err, "postgres: insert field %s", def.Name)
}

func (s *PostgresStore) UpdateFieldDefinition(ctx context.Context, name string, upd FieldUpdate) error {
	sets := []string{}
	args := []any{}
	argIdx := 1

	add := func(col string, val any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if upd.DisplayName != nil {
		add("display_name", *upd.DisplayName)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Type != nil {
		add("field_type", string(*upd.Type))
	}
	if upd.Required != nil {
		add("is_required", *upd.Required)
	}
	if upd.ValidationPattern != nil {
		add("validation_pattern", *upd.ValidationPattern)
	}
	if upd.Hints != nil {
		hintsJSON, err := json.Marshal(*upd.Hints)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal hints")
		}
		add("extraction_hints", hintsJSON)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now().UTC())

	query := "UPDATE field_definitions SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(" WHERE name = $%d", argIdx)
	args = append(args, name)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update field %s", name)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("field not found: %s", name)
	}
	return nil
}

func (s *PostgresStore) DeactivateFieldDefinition(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE field_definitions SET is_active = false, updated_at = $1 WHERE name = $2`,
		time.Now().UTC(), name,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: deactivate field %s", name)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("field not found: %s", name)
	}
	return nil
}

const fieldColumns = `name, display_name, description, field_type, is_required, validation_pattern, extraction_hints, is_active`

func scanField(row pgx.Row) (*model.FieldDefinition, error) {
	var def model.FieldDefinition
	var fieldType string
	var hintsJSON []byte

	err := row.Scan(&def.Name, &def.DisplayName, &def.Description, &fieldType,
		&def.Required, &def.ValidationPattern, &hintsJSON, &def.Active)
	if err != nil {
		return nil, err
	}
	def.Type = model.FieldType(fieldType)
	if len(hintsJSON) > 0 {
		if err := json.Unmarshal(hintsJSON, &def.Hints); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal hints")
		}
	}
	return &def, nil
}

func (s *PostgresStore) GetFieldDefinition(ctx context.Context, name string) (*model.FieldDefinition, error) {
	def, err := scanField(s.pool.QueryRow(ctx,
		`SELECT `+fieldColumns+` FROM field_definitions WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get field %s", name)
	}
	return def, nil
}

func (s *PostgresStore) ListFieldDefinitions(ctx context.Context, activeOnly bool) ([]model.FieldDefinition, error) {
	query := `SELECT ` + fieldColumns + ` FROM field_definitions`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list fields")
	}
	defer rows.Close()

	var fields []model.FieldDefinition
	for rows.Next() {
		def, err := scanField(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan field")
		}
		fields = append(fields, *def)
	}
	return fields, eris.Wrap(rows.Err(), "postgres: list fields iterate")
}

func (s *PostgresStore) CountFieldDefinitions(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM field_definitions`).Scan(&count)
	return count, eris.Wrap(err, "postgres: count fields")
}

// Documents

func (s *PostgresStore) CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	doc.UploadedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = model.DocStatusPending
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, filename, original_filename, file_path, mime_type, status, uploaded_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.Filename, doc.OriginalFilename, doc.FilePath, doc.MimeType,
		string(doc.Status), doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert document")
	}
	return &doc, nil
}

func (s *PostgresStore) UpdateDocumentStatus(ctx context.Context, documentID string, status model.DocumentStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET status = $1, error = $2, updated_at = $3 WHERE id = $4`,
		string(status), errMsg, time.Now().UTC(), documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update document status %s", documentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("document not found: %s", documentID)
	}
	return nil
}

func (s *PostgresStore) SaveDocumentOCR(ctx context.Context, documentID, text string, confidence float64, engine string) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET ocr_text = $1, ocr_confidence = $2, ocr_engine = $3, ocr_at = $4, updated_at = $4 WHERE id = $5`,
		text, confidence, engine, now, documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save document ocr %s", documentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("document not found: %s", documentID)
	}
	return nil
}

func (s *PostgresStore) SaveDocumentExtraction(ctx context.Context, documentID string, result *model.ExtractionResult) error {
	fieldsJSON, err := json.Marshal(result.Fields)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal extracted fields")
	}
	scoresJSON, err := json.Marshal(result.Confidence)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal confidence scores")
	}

	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET extracted_fields = $1, confidence_scores = $2, provider = $3, model = $4,
		    model_version = $5, requires_review = $6, updated_at = $7 WHERE id = $8`,
		fieldsJSON, scoresJSON, result.Provider, result.Model,
		result.ModelVersion, result.RequiresReview, now, documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save document extraction %s", documentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("document not found: %s", documentID)
	}
	return nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	var doc model.Document
	var status string
	var ocrText, ocrEngine, provider, mdl, modelVersion, errMsg *string
	var ocrConfidence *float64
	var ocrAt *time.Time
	var fieldsJSON, scoresJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, filename, original_filename, file_path, mime_type, status, uploaded_at, updated_at,
		    ocr_text, ocr_confidence, ocr_engine, ocr_at,
		    extracted_fields, confidence_scores, provider, model, model_version, requires_review, error
		 FROM documents WHERE id = $1`,
		documentID,
	).Scan(&doc.ID, &doc.Filename, &doc.OriginalFilename, &doc.FilePath, &doc.MimeType,
		&status, &doc.UploadedAt, &doc.UpdatedAt,
		&ocrText, &ocrConfidence, &ocrEngine, &ocrAt,
		&fieldsJSON, &scoresJSON, &provider, &mdl, &modelVersion, &doc.RequiresReview, &errMsg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get document %s", documentID)
	}

	doc.Status = model.DocumentStatus(status)
	if ocrText != nil {
		doc.OCRText = *ocrText
	}
	if ocrConfidence != nil {
		doc.OCRConfidence = *ocrConfidence
	}
	if ocrEngine != nil {
		doc.OCREngine = *ocrEngine
	}
	doc.OCRAt = ocrAt
	if provider != nil {
		doc.Provider = *provider
	}
	if mdl != nil {
		doc.Model = *mdl
	}
	if modelVersion != nil {
		doc.ModelVersion = *modelVersion
	}
	if errMsg != nil {
		doc.Error = *errMsg
	}
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &doc.ExtractedFields); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal extracted fields")
		}
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &doc.ConfidenceScores); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal confidence scores")
		}
	}
	return &doc, nil
}

func (s *PostgresStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	var detailsJSON []byte
	if entry.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(entry.Details)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal audit details")
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_log (id, document_id, action, details, user_id, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.DocumentID, entry.Action, detailsJSON, entry.UserID, entry.Timestamp,
	)
	return eris.Wrapf(err, "postgres: append audit for %s", entry.DocumentID)
}

func (s *PostgresStore) ListAudit(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, document_id, action, details, user_id, timestamp FROM audit_log
		 WHERE document_id = $1 ORDER BY timestamp ASC`,
		documentID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit")
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var detailsJSON []byte
		var userID *string
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Action, &detailsJSON, &userID, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit entry")
		}
		if userID != nil {
			e.UserID = *userID
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &e.Details); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal audit details")
			}
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list audit iterate")
}

// Feedback

// RecordFeedback appends the feedback row and folds it into the
// (model_version, field_name) aggregate in one transaction. The SELECT FOR
// UPDATE row lock serializes concurrent reviewers on the same key, so the
// read-Apply-write never loses an update.
func (s *PostgresStore) RecordFeedback(ctx context.Context, fb model.HumanFeedback) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin feedback tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO human_feedback
		 (id, document_id, field_name, original_value, corrected_value, original_confidence,
		  feedback_type, reviewer_id, model_version, ocr_context, reward_score, review_timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		fb.ID, fb.DocumentID, fb.FieldName, fb.OriginalValue, fb.CorrectedValue, fb.OriginalConfidence,
		string(fb.FeedbackType), fb.ReviewerID, fb.ModelVersion, fb.OCRContext, fb.RewardScore, fb.ReviewTimestamp,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert feedback")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO model_performance (model_version, field_name) VALUES ($1, $2)
		 ON CONFLICT (model_version, field_name) DO NOTHING`,
		fb.ModelVersion, fb.FieldName,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: ensure performance row")
	}

	var perf model.ModelPerformance
	err = tx.QueryRow(ctx,
		`SELECT model_version, field_name, total_predictions, correct_predictions, false_positives, false_negatives,
		    avg_confidence, avg_reward, precision, recall, f1_score, last_updated
		 FROM model_performance WHERE model_version = $1 AND field_name = $2 FOR UPDATE`,
		fb.ModelVersion, fb.FieldName,
	).Scan(&perf.ModelVersion, &perf.FieldName, &perf.TotalPredictions, &perf.CorrectPredictions,
		&perf.FalsePositives, &perf.FalseNegatives, &perf.AvgConfidence, &perf.AvgReward,
		&perf.Precision, &perf.Recall, &perf.F1Score, &perf.LastUpdated)
	if err != nil {
		return eris.Wrap(err, "postgres: lock performance row")
	}

	perf.Apply(fb.FeedbackType, fb.RewardScore, time.Now().UTC())

	_, err = tx.Exec(ctx,
		`UPDATE model_performance SET total_predictions = $1, correct_predictions = $2, false_positives = $3,
		    false_negatives = $4, avg_reward = $5, precision = $6, recall = $7, f1_score = $8, last_updated = $9
		 WHERE model_version = $10 AND field_name = $11`,
		perf.TotalPredictions, perf.CorrectPredictions, perf.FalsePositives, perf.FalseNegatives,
		perf.AvgReward, perf.Precision, perf.Recall, perf.F1Score, perf.LastUpdated,
		fb.ModelVersion, fb.FieldName,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update performance row")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit feedback tx")
}

func (s *PostgresStore) ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.HumanFeedback, error) {
	query := `SELECT id, document_id, field_name, original_value, corrected_value, original_confidence,
	    feedback_type, reviewer_id, model_version, ocr_context, reward_score, review_timestamp
	 FROM human_feedback WHERE true`
	args := []any{}
	argIdx := 1

	if filter.ModelVersion != "" {
		query += fmt.Sprintf(` AND model_version = $%d`, argIdx)
		args = append(args, filter.ModelVersion)
		argIdx++
	}
	if filter.FieldName != "" {
		query += fmt.Sprintf(` AND field_name = $%d`, argIdx)
		args = append(args, filter.FieldName)
		argIdx++
	}
	query += ` ORDER BY review_timestamp DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list feedback")
	}
	defer rows.Close()

	var records []model.HumanFeedback
	for rows.Next() {
		var fb model.HumanFeedback
		var fbType string
		var origVal, corrVal, ocrCtx *string
		if err := rows.Scan(&fb.ID, &fb.DocumentID, &fb.FieldName, &origVal, &corrVal,
			&fb.OriginalConfidence, &fbType, &fb.ReviewerID, &fb.ModelVersion,
			&ocrCtx, &fb.RewardScore, &fb.ReviewTimestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan feedback")
		}
		fb.FeedbackType = model.FeedbackType(fbType)
		if origVal != nil {
			fb.OriginalValue = *origVal
		}
		if corrVal != nil {
			fb.CorrectedValue = *corrVal
		}
		if ocrCtx != nil {
			fb.OCRContext = *ocrCtx
		}
		records = append(records, fb)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list feedback iterate")
}

func (s *PostgresStore) FeedbackSummary(ctx context.Context) (*model.FeedbackSummary, error) {
	summary := &model.FeedbackSummary{
		FeedbackDistribution: make(map[string]int64),
	}

	var avgReward *float64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(reward_score) FROM human_feedback`,
	).Scan(&summary.TotalFeedbackRecords, &avgReward)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: feedback totals")
	}
	if avgReward != nil {
		summary.AverageReward = *avgReward
	}

	rows, err := s.pool.Query(ctx,
		`SELECT feedback_type, COUNT(*) FROM human_feedback GROUP BY feedback_type`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: feedback distribution")
	}
	defer rows.Close()

	for rows.Next() {
		var fbType string
		var count int64
		if err := rows.Scan(&fbType, &count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan distribution")
		}
		summary.FeedbackDistribution[fbType] = count
	}
	return summary, eris.Wrap(rows.Err(), "postgres: feedback distribution iterate")
}

func (s *PostgresStore) GetPerformance(ctx context.Context, modelVersion string) ([]model.ModelPerformance, error) {
	query := `SELECT model_version, field_name, total_predictions, correct_predictions, false_positives, false_negatives,
	    avg_confidence, avg_reward, precision, recall, f1_score, last_updated
	 FROM model_performance`
	args := []any{}
	if modelVersion != "" {
		query += ` WHERE model_version = $1`
		args = append(args, modelVersion)
	}
	query += ` ORDER BY model_version, field_name`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get performance")
	}
	defer rows.Close()

	var perfs []model.ModelPerformance
	for rows.Next() {
		var p model.ModelPerformance
		if err := rows.Scan(&p.ModelVersion, &p.FieldName, &p.TotalPredictions, &p.CorrectPredictions,
			&p.FalsePositives, &p.FalseNegatives, &p.AvgConfidence, &p.AvgReward,
			&p.Precision, &p.Recall, &p.F1Score, &p.LastUpdated); err != nil {
			return nil, eris.Wrap(err, "postgres: scan performance")
		}
		perfs = append(perfs, p)
	}
	return perfs, eris.Wrap(rows.Err(), "postgres: get performance iterate")
}
