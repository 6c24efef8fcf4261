package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/team-manager/models"
)

var (
	ErrRecordNotFound   = errors.New("training record not found")
	ErrRecordRefInvalid = errors.New("training record references a missing player or plan")
)

// PlayerScore is one score of one player, in insertion order.
type PlayerScore struct {
	PlayerID int
	Score    int
}

type RecordRepository interface {
	Create(ctx context.Context, record *models.TrainingRecord) error
	GetByID(ctx context.Context, id int) (*models.TrainingRecord, error)
	Delete(ctx context.Context, id int) error
	ListBySport(ctx context.Context, sportID int) ([]models.RecordView, error)
	ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.RecordView, error)
	ListByPlayer(ctx context.Context, playerID int) ([]models.RecordView, error)
	ListByPlan(ctx context.Context, planID int) ([]models.RecordView, error)
	CountBySport(ctx context.Context, sportID int) (int, error)
	ScoresBySport(ctx context.Context, sportID int) ([]PlayerScore, error)
	ScoresByPlayer(ctx context.Context, playerID int) ([]int, error)
}

type postgresRecordRepository struct {
	db *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) RecordRepository {
	return &postgresRecordRepository{db: db}
}

const recordViewSelect = `
	SELECT r.id, r.player_id, r.plan_id, r.score, r.notes, r.record_time, p.name, tp.title
	FROM training_records r
	JOIN players p ON p.id = r.player_id
	LEFT JOIN training_plans tp ON tp.id = r.plan_id`

func (r *postgresRecordRepository) Create(ctx context.Context, record *models.TrainingRecord) error {
	query := `
		INSERT INTO training_records (player_id, plan_id, score, notes, record_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if record.RecordTime.IsZero() {
		record.RecordTime = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		record.PlayerID,
		nullableInt(record.PlanID),
		record.Score,
		record.Notes,
		record.RecordTime,
	).Scan(&record.ID)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return ErrRecordRefInvalid
		}
		return fmt.Errorf("failed to create training record: %w", err)
	}
	return nil
}

func (r *postgresRecordRepository) GetByID(ctx context.Context, id int) (*models.TrainingRecord, error) {
	query := `SELECT id, player_id, plan_id, score, notes, record_time FROM training_records WHERE id = $1`

	var record models.TrainingRecord
	var planID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.PlayerID,
		&planID,
		&record.Score,
		&record.Notes,
		&record.RecordTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	record.PlanID = intPtr(planID)
	return &record, nil
}

func (r *postgresRecordRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRecordRepository) ListBySport(ctx context.Context, sportID int) ([]models.RecordView, error) {
	query := recordViewSelect + ` WHERE p.sport_id = $1 ORDER BY r.record_time DESC, r.id DESC`
	return r.listViews(ctx, query, sportID)
}

func (r *postgresRecordRepository) ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.RecordView, error) {
	query := recordViewSelect + ` WHERE p.sport_id = $1 ORDER BY r.record_time DESC, r.id DESC LIMIT $2`
	return r.listViews(ctx, query, sportID, limit)
}

func (r *postgresRecordRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.RecordView, error) {
	query := recordViewSelect + ` WHERE r.player_id = $1 ORDER BY r.record_time DESC, r.id DESC`
	return r.listViews(ctx, query, playerID)
}

func (r *postgresRecordRepository) ListByPlan(ctx context.Context, planID int) ([]models.RecordView, error) {
	query := recordViewSelect + ` WHERE r.plan_id = $1 ORDER BY r.record_time DESC, r.id DESC`
	return r.listViews(ctx, query, planID)
}

func (r *postgresRecordRepository) CountBySport(ctx context.Context, sportID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM training_records r
		JOIN players p ON p.id = r.player_id
		WHERE p.sport_id = $1`
	var n int
	err := r.db.QueryRowContext(ctx, query, sportID).Scan(&n)
	return n, err
}

func (r *postgresRecordRepository) ScoresBySport(ctx context.Context, sportID int) ([]PlayerScore, error) {
	query := `
		SELECT r.player_id, r.score
		FROM training_records r
		JOIN players p ON p.id = r.player_id
		WHERE p.sport_id = $1
		ORDER BY r.id ASC`

	rows, err := r.db.QueryContext(ctx, query, sportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for sport %d: %w", sportID, err)
	}
	defer rows.Close()

	scores := make([]PlayerScore, 0)
	for rows.Next() {
		var ps PlayerScore
		if err := rows.Scan(&ps.PlayerID, &ps.Score); err != nil {
			return nil, err
		}
		scores = append(scores, ps)
	}
	return scores, rows.Err()
}

func (r *postgresRecordRepository) ScoresByPlayer(ctx context.Context, playerID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT score FROM training_records WHERE player_id = $1 ORDER BY id ASC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for player %d: %w", playerID, err)
	}
	defer rows.Close()

	scores := make([]int, 0)
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *postgresRecordRepository) listViews(ctx context.Context, query string, args ...interface{}) ([]models.RecordView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training records: %w", err)
	}
	defer rows.Close()

	views := make([]models.RecordView, 0)
	for rows.Next() {
		var v models.RecordView
		var planID sql.NullInt64
		var planTitle sql.NullString
		if err := rows.Scan(
			&v.ID,
			&v.PlayerID,
			&planID,
			&v.Score,
			&v.Notes,
			&v.RecordTime,
			&v.PlayerName,
			&planTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan training record: %w", err)
		}
		v.PlanID = intPtr(planID)
		v.PlanTitle = stringPtr(planTitle)
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
