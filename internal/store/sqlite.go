package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/jstiltner/document-understanding/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB

	// SQLite has no FOR UPDATE; feedbackMu serializes all
	// read-Apply-write aggregate folds in this process.
	feedbackMu sync.Mutex
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS field_definitions (
	name               TEXT PRIMARY KEY,
	display_name       TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	field_type         TEXT NOT NULL DEFAULT 'text',
	is_required        INTEGER NOT NULL DEFAULT 0,
	validation_pattern TEXT NOT NULL DEFAULT '',
	extraction_hints   TEXT,
	is_active          INTEGER NOT NULL DEFAULT 1,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS documents (
	id                TEXT PRIMARY KEY,
	filename          TEXT NOT NULL,
	original_filename TEXT NOT NULL DEFAULT '',
	file_path         TEXT NOT NULL DEFAULT '',
	mime_type         TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'pending',
	uploaded_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	ocr_text          TEXT,
	ocr_confidence    REAL,
	ocr_engine        TEXT,
	ocr_at            DATETIME,
	extracted_fields  TEXT,
	confidence_scores TEXT,
	provider          TEXT,
	model             TEXT,
	model_version     TEXT,
	requires_review   INTEGER NOT NULL DEFAULT 0,
	error             TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS audit_log (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id),
	action      TEXT NOT NULL,
	details     TEXT,
	user_id     TEXT,
	timestamp   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_log_document_id ON audit_log(document_id);

CREATE TABLE IF NOT EXISTS human_feedback (
	id                  TEXT PRIMARY KEY,
	document_id         TEXT NOT NULL,
	field_name          TEXT NOT NULL,
	original_value      TEXT,
	corrected_value     TEXT,
	original_confidence REAL NOT NULL DEFAULT 0,
	feedback_type       TEXT NOT NULL,
	reviewer_id         TEXT NOT NULL,
	model_version       TEXT NOT NULL,
	ocr_context         TEXT,
	reward_score        REAL NOT NULL,
	review_timestamp    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_human_feedback_model_field ON human_feedback(model_version, field_name);
CREATE INDEX IF NOT EXISTS idx_human_feedback_timestamp ON human_feedback(review_timestamp DESC);

CREATE TABLE IF NOT EXISTS model_performance (
	model_version       TEXT NOT NULL,
	field_name          TEXT NOT NULL,
	total_predictions   INTEGER NOT NULL DEFAULT 0,
	correct_predictions INTEGER NOT NULL DEFAULT 0,
	false_positives     INTEGER NOT NULL DEFAULT 0,
	false_negatives     INTEGER NOT NULL DEFAULT 0,
	avg_confidence      REAL NOT NULL DEFAULT 0,
	avg_reward          REAL NOT NULL DEFAULT 0,
	precision           REAL NOT NULL DEFAULT 0,
	recall              REAL NOT NULL DEFAULT 0,
	f1_score            REAL NOT NULL DEFAULT 0,
	last_updated        DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (model_version, field_name)
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Field definitions

func (s *SQLiteStore) CreateFieldDefinition(ctx context.Context, def model.FieldDefinition) error {
	hintsJSON, err := json.Marshal(def.Hints)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal hints")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO field_definitions
		 (name, display_name, description, field_type, is_required, validation_pattern, extraction_hints, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.Name, def.DisplayName, def.Description, string(def.Type),
		def.Required, def.ValidationPattern, string(hintsJSON), def.Active, now, now,
	)
	return eris.Wrapf(err, "sqlite: insert field %s", def.Name)
}

func (s *SQLiteStore) UpdateFieldDefinition(ctx context.Context, name string, upd FieldUpdate) error {
	query := `UPDATE field_definitions SET `
	var sets []string
	var args []any

	if upd.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *upd.DisplayName)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Type != nil {
		sets = append(sets, "field_type = ?")
		args = append(args, string(*upd.Type))
	}
	if upd.Required != nil {
		sets = append(sets, "is_required = ?")
		args = append(args, *upd.Required)
	}
	if upd.ValidationPattern != nil {
		sets = append(sets, "validation_pattern = ?")
		args = append(args, *upd.ValidationPattern)
	}
	if upd.Hints != nil {
		hintsJSON, err := json.Marshal(*upd.Hints)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal hints")
		}
		sets = append(sets, "extraction_hints = ?")
		args = append(args, string(hintsJSON))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())

	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE name = ?"
	args = append(args, name)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update field %s", name)
	}
	return checkRowsAffected(res, "field", name)
}

func (s *SQLiteStore) DeactivateFieldDefinition(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE field_definitions SET is_active = 0, updated_at = ? WHERE name = ?`,
		time.Now().UTC(), name,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: deactivate field %s", name)
	}
	return checkRowsAffected(res, "field", name)
}

func scanFieldRow(row scannable) (*model.FieldDefinition, error) {
	var def model.FieldDefinition
	var fieldType string
	var hintsJSON sql.NullString

	err := row.Scan(&def.Name, &def.DisplayName, &def.Description, &fieldType,
		&def.Required, &def.ValidationPattern, &hintsJSON, &def.Active)
	if err != nil {
		return nil, err
	}
	def.Type = model.FieldType(fieldType)
	if hintsJSON.Valid && hintsJSON.String != "" {
		if err := json.Unmarshal([]byte(hintsJSON.String), &def.Hints); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal hints")
		}
	}
	return &def, nil
}

func (s *SQLiteStore) GetFieldDefinition(ctx context.Context, name string) (*model.FieldDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, display_name, description, field_type, is_required, validation_pattern, extraction_hints, is_active
		 FROM field_definitions WHERE name = ?`, name)

	def, err := scanFieldRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get field %s", name)
	}
	return def, nil
}

func (s *SQLiteStore) ListFieldDefinitions(ctx context.Context, activeOnly bool) ([]model.FieldDefinition, error) {
	query := `SELECT name, display_name, description, field_type, is_required, validation_pattern, extraction_hints, is_active
	 FROM field_definitions`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list fields")
	}
	defer rows.Close()

	var fields []model.FieldDefinition
	for rows.Next() {
		def, err := scanFieldRow(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan field")
		}
		fields = append(fields, *def)
	}
	return fields, eris.Wrap(rows.Err(), "sqlite: list fields iterate")
}

func (s *SQLiteStore) CountFieldDefinitions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM field_definitions`).Scan(&count)
	return count, eris.Wrap(err, "sqlite: count fields")
}

// Documents

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	doc.UploadedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = model.DocStatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, original_filename, file_path, mime_type, status, uploaded_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.OriginalFilename, doc.FilePath, doc.MimeType,
		string(doc.Status), doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert document")
	}
	return &doc, nil
}

func (s *SQLiteStore) UpdateDocumentStatus(ctx context.Context, documentID string, status model.DocumentStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errMsg, time.Now().UTC(), documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update document status %s", documentID)
	}
	return checkRowsAffected(res, "document", documentID)
}

func (s *SQLiteStore) SaveDocumentOCR(ctx context.Context, documentID, text string, confidence float64, engine string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET ocr_text = ?, ocr_confidence = ?, ocr_engine = ?, ocr_at = ?, updated_at = ? WHERE id = ?`,
		text, confidence, engine, now, now, documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save document ocr %s", documentID)
	}
	return checkRowsAffected(res, "document", documentID)
}

func (s *SQLiteStore) SaveDocumentExtraction(ctx context.Context, documentID string, result *model.ExtractionResult) error {
	fieldsJSON, err := json.Marshal(result.Fields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal extracted fields")
	}
	scoresJSON, err := json.Marshal(result.Confidence)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal confidence scores")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET extracted_fields = ?, confidence_scores = ?, provider = ?, model = ?,
		    model_version = ?, requires_review = ?, updated_at = ? WHERE id = ?`,
		string(fieldsJSON), string(scoresJSON), result.Provider, result.Model,
		result.ModelVersion, result.RequiresReview, time.Now().UTC(), documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save document extraction %s", documentID)
	}
	return checkRowsAffected(res, "document", documentID)
}

func (s *SQLiteStore) GetDocument(ctx context.Context, documentID string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, original_filename, file_path, mime_type, status, uploaded_at, updated_at,
		    ocr_text, ocr_confidence, ocr_engine, ocr_at,
		    extracted_fields, confidence_scores, provider, model, model_version, requires_review, error
		 FROM documents WHERE id = ?`,
		documentID,
	)

	var doc model.Document
	var status string
	var ocrText, ocrEngine, provider, mdl, modelVersion, errMsg, fieldsJSON, scoresJSON sql.NullString
	var ocrConfidence sql.NullFloat64
	var ocrAt sql.NullTime

	err := row.Scan(&doc.ID, &doc.Filename, &doc.OriginalFilename, &doc.FilePath, &doc.MimeType,
		&status, &doc.UploadedAt, &doc.UpdatedAt,
		&ocrText, &ocrConfidence, &ocrEngine, &ocrAt,
		&fieldsJSON, &scoresJSON, &provider, &mdl, &modelVersion, &doc.RequiresReview, &errMsg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get document %s", documentID)
	}

	doc.Status = model.DocumentStatus(status)
	doc.OCRText = ocrText.String
	doc.OCRConfidence = ocrConfidence.Float64
	doc.OCREngine = ocrEngine.String
	if ocrAt.Valid {
		t := ocrAt.Time
		doc.OCRAt = &t
	}
	doc.Provider = provider.String
	doc.Model = mdl.String
	doc.ModelVersion = modelVersion.String
	doc.Error = errMsg.String
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &doc.ExtractedFields); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal extracted fields")
		}
	}
	if scoresJSON.Valid && scoresJSON.String != "" {
		if err := json.Unmarshal([]byte(scoresJSON.String), &doc.ConfidenceScores); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal confidence scores")
		}
	}
	return &doc, nil
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	var detailsJSON string
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal audit details")
		}
		detailsJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, document_id, action, details, user_id, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.DocumentID, entry.Action, detailsJSON, entry.UserID, entry.Timestamp,
	)
	return eris.Wrapf(err, "sqlite: append audit for %s", entry.DocumentID)
}

func (s *SQLiteStore) ListAudit(ctx context.Context, documentID string) ([]model.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, action, details, user_id, timestamp FROM audit_log
		 WHERE document_id = ? ORDER BY timestamp ASC`,
		documentID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit")
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var detailsJSON, userID sql.NullString
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.Action, &detailsJSON, &userID, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit entry")
		}
		e.UserID = userID.String
		if detailsJSON.Valid && detailsJSON.String != "" {
			if err := json.Unmarshal([]byte(detailsJSON.String), &e.Details); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal audit details")
			}
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list audit iterate")
}

// Feedback

// RecordFeedback appends the feedback row and folds it into the aggregate
// in one transaction, serialized process-wide by feedbackMu.
func (s *SQLiteStore) RecordFeedback(ctx context.Context, fb model.HumanFeedback) error {
	s.feedbackMu.Lock()
	defer s.feedbackMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin feedback tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO human_feedback
		 (id, document_id, field_name, original_value, corrected_value, original_confidence,
		  feedback_type, reviewer_id, model_version, ocr_context, reward_score, review_timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fb.ID, fb.DocumentID, fb.FieldName, fb.OriginalValue, fb.CorrectedValue, fb.OriginalConfidence,
		string(fb.FeedbackType), fb.ReviewerID, fb.ModelVersion, fb.OCRContext, fb.RewardScore, fb.ReviewTimestamp,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert feedback")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO model_performance (model_version, field_name) VALUES (?, ?)`,
		fb.ModelVersion, fb.FieldName,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: ensure performance row")
	}

	var perf model.ModelPerformance
	err = tx.QueryRowContext(ctx,
		`SELECT model_version, field_name, total_predictions, correct_predictions, false_positives, false_negatives,
		    avg_confidence, avg_reward, precision, recall, f1_score, last_updated
		 FROM model_performance WHERE model_version = ? AND field_name = ?`,
		fb.ModelVersion, fb.FieldName,
	).Scan(&perf.ModelVersion, &perf.FieldName, &perf.TotalPredictions, &perf.CorrectPredictions,
		&perf.FalsePositives, &perf.FalseNegatives, &perf.AvgConfidence, &perf.AvgReward,
		&perf.Precision, &perf.Recall, &perf.F1Score, &perf.LastUpdated)
	if err != nil {
		return eris.Wrap(err, "sqlite: read performance row")
	}

	perf.Apply(fb.FeedbackType, fb.RewardScore, time.Now().UTC())

	_, err = tx.ExecContext(ctx,
		`UPDATE model_performance SET total_predictions = ?, correct_predictions = ?, false_positives = ?,
		    false_negatives = ?, avg_reward = ?, precision = ?, recall = ?, f1_score = ?, last_updated = ?
		 WHERE model_version = ? AND field_name = ?`,
		perf.TotalPredictions, perf.CorrectPredictions, perf.FalsePositives, perf.FalseNegatives,
		perf.AvgReward, perf.Precision, perf.Recall, perf.F1Score, perf.LastUpdated,
		fb.ModelVersion, fb.FieldName,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update performance row")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit feedback tx")
}

func (s *SQLiteStore) ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.HumanFeedback, error) {
	query := `SELECT id, document_id, field_name, original_value, corrected_value, original_confidence,
	    feedback_type, reviewer_id, model_version, ocr_context, reward_score, review_timestamp
	 FROM human_feedback WHERE 1=1`
	var args []any

	if filter.ModelVersion != "" {
		query += ` AND model_version = ?`
		args = append(args, filter.ModelVersion)
	}
	if filter.FieldName != "" {
		query += ` AND field_name = ?`
		args = append(args, filter.FieldName)
	}
	query += ` ORDER BY review_timestamp DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list feedback")
	}
	defer rows.Close()

	var records []model.HumanFeedback
	for rows.Next() {
		var fb model.HumanFeedback
		var fbType string
		var origVal, corrVal, ocrCtx sql.NullString
		if err := rows.Scan(&fb.ID, &fb.DocumentID, &fb.FieldName, &origVal, &corrVal,
			&fb.OriginalConfidence, &fbType, &fb.ReviewerID, &fb.ModelVersion,
			&ocrCtx, &fb.RewardScore, &fb.ReviewTimestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan feedback")
		}
		fb.FeedbackType = model.FeedbackType(fbType)
		fb.OriginalValue = origVal.String
		fb.CorrectedValue = corrVal.String
		fb.OCRContext = ocrCtx.String
		records = append(records, fb)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list feedback iterate")
}

func (s *SQLiteStore) FeedbackSummary(ctx context.Context) (*model.FeedbackSummary, error) {
	summary := &model.FeedbackSummary{
		FeedbackDistribution: make(map[string]int64),
	}

	var avgReward sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(reward_score) FROM human_feedback`,
	).Scan(&summary.TotalFeedbackRecords, &avgReward)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: feedback totals")
	}
	summary.AverageReward = avgReward.Float64

	rows, err := s.db.QueryContext(ctx,
		`SELECT feedback_type, COUNT(*) FROM human_feedback GROUP BY feedback_type`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: feedback distribution")
	}
	defer rows.Close()

	for rows.Next() {
		var fbType string
		var count int64
		if err := rows.Scan(&fbType, &count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan distribution")
		}
		summary.FeedbackDistribution[fbType] = count
	}
	return summary, eris.Wrap(rows.Err(), "sqlite: feedback distribution iterate")
}

func (s *SQLiteStore) GetPerformance(ctx context.Context, modelVersion string) ([]model.ModelPerformance, error) {
	query := `SELECT model_version, field_name, total_predictions, correct_predictions, false_positives, false_negatives,
	    avg_confidence, avg_reward, precision, recall, f1_score, last_updated
	 FROM model_performance`
	var args []any
	if modelVersion != "" {
		query += ` WHERE model_version = ?`
		args = append(args, modelVersion)
	}
	query += ` ORDER BY model_version, field_name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get performance")
	}
	defer rows.Close()

	var perfs []model.ModelPerformance
	for rows.Next() {
		var p model.ModelPerformance
		if err := rows.Scan(&p.ModelVersion, &p.FieldName, &p.TotalPredictions, &p.CorrectPredictions,
			&p.FalsePositives, &p.FalseNegatives, &p.AvgConfidence, &p.AvgReward,
			&p.Precision, &p.Recall, &p.F1Score, &p.LastUpdated); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan performance")
		}
		perfs = append(perfs, p)
	}
	return perfs, eris.Wrap(rows.Err(), "sqlite: get performance iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}
