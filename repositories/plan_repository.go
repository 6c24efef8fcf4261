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
	ErrPlanNotFound     = errors.New("training plan not found")
	ErrPlanSportInvalid = errors.New("training plan sport does not exist")
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.TrainingPlan) error
	GetByID(ctx context.Context, id int) (*models.TrainingPlan, error)
	Update(ctx context.Context, plan *models.TrainingPlan) error
	Delete(ctx context.Context, id int) error
	ListBySport(ctx context.Context, sportID int) ([]models.TrainingPlan, error)
	ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.TrainingPlan, error)
	CountBySport(ctx context.Context, sportID int) (int, error)
}

type postgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) PlanRepository {
	return &postgresPlanRepository{db: db}
}

const planColumns = `id, title, content, plan_date, sport_id, created_at, updated_at`

func (r *postgresPlanRepository) Create(ctx context.Context, plan *models.TrainingPlan) error {
	query := `
		INSERT INTO training_plans (title, content, plan_date, sport_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		plan.Title,
		plan.Content,
		plan.PlanDate,
		plan.SportID,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Scan(&plan.ID)
	if err != nil {
		if isForeignKeyViolation(err, "training_plans_sport_id_fkey") {
			return ErrPlanSportInvalid
		}
		return fmt.Errorf("failed to create training plan: %w", err)
	}
	return nil
}

func (r *postgresPlanRepository) GetByID(ctx context.Context, id int) (*models.TrainingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM training_plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (r *postgresPlanRepository) Update(ctx context.Context, plan *models.TrainingPlan) error {
	query := `
		UPDATE training_plans SET
			title = $1,
			content = $2,
			plan_date = $3,
			updated_at = $4
		WHERE id = $5`

	plan.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, plan.Title, plan.Content, plan.PlanDate, plan.UpdatedAt, plan.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlanNotFound)
}

// Delete удаляет план; связанные с ним записи удаляются каскадно.
func (r *postgresPlanRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlanNotFound)
}

func (r *postgresPlanRepository) ListBySport(ctx context.Context, sportID int) ([]models.TrainingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM training_plans WHERE sport_id = $1 ORDER BY plan_date DESC, id DESC`
	return r.list(ctx, query, sportID)
}

func (r *postgresPlanRepository) ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.TrainingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM training_plans WHERE sport_id = $1 ORDER BY plan_date DESC, id DESC LIMIT $2`
	return r.list(ctx, query, sportID, limit)
}

func (r *postgresPlanRepository) CountBySport(ctx context.Context, sportID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_plans WHERE sport_id = $1`, sportID).Scan(&n)
	return n, err
}

func (r *postgresPlanRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.TrainingPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training plans: %w", err)
	}
	defer rows.Close()

	plans := make([]models.TrainingPlan, 0)
	for rows.Next() {
		plan, scanErr := scanPlan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan training plan: %w", scanErr)
		}
		plans = append(plans, *plan)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func scanPlan(row rowScanner) (*models.TrainingPlan, error) {
	var plan models.TrainingPlan
	err := row.Scan(
		&plan.ID,
		&plan.Title,
		&plan.Content,
		&plan.PlanDate,
		&plan.SportID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
