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
	ErrFoodRecordNotFound    = errors.New("food record not found")
	ErrFoodRecordUserInvalid = errors.New("food record user does not exist")
	ErrFoodImageTaken        = errors.New("image is already used by another food record")
)

type FoodRecordRepository interface {
	Create(ctx context.Context, record *models.FoodRecord) error
	GetByID(ctx context.Context, id int) (*models.FoodRecord, error)
	Delete(ctx context.Context, id int) error
	ListByUser(ctx context.Context, userID int) ([]models.FoodRecord, error)
	ListLatestByUser(ctx context.Context, userID int, limit int) ([]models.FoodRecord, error)
	CountByUser(ctx context.Context, userID int) (int, error)
}

type postgresFoodRecordRepository struct {
	db *sql.DB
}

func NewPostgresFoodRecordRepository(db *sql.DB) FoodRecordRepository {
	return &postgresFoodRecordRepository{db: db}
}

const foodColumns = `id, user_id, food_name, calories, weight, image_path, created_at`

func (r *postgresFoodRecordRepository) Create(ctx context.Context, record *models.FoodRecord) error {
	query := `
		INSERT INTO food_records (user_id, food_name, calories, weight, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		record.UserID,
		record.FoodName,
		record.Calories,
		record.Weight,
		nullableString(record.ImageKey),
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		if isForeignKeyViolation(err, "food_records_user_id_fkey") {
			return ErrFoodRecordUserInvalid
		}
		if isUniqueViolation(err, "food_records", "image_path") {
			return ErrFoodImageTaken
		}
		return fmt.Errorf("failed to create food record: %w", err)
	}
	return nil
}

func (r *postgresFoodRecordRepository) GetByID(ctx context.Context, id int) (*models.FoodRecord, error) {
	query := `SELECT ` + foodColumns + ` FROM food_records WHERE id = $1`
	record, err := scanFoodRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *postgresFoodRecordRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM food_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFoodRecordNotFound)
}

func (r *postgresFoodRecordRepository) ListByUser(ctx context.Context, userID int) ([]models.FoodRecord, error) {
	query := `SELECT ` + foodColumns + ` FROM food_records WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresFoodRecordRepository) ListLatestByUser(ctx context.Context, userID int, limit int) ([]models.FoodRecord, error) {
	query := `SELECT ` + foodColumns + ` FROM food_records WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	return r.list(ctx, query, userID, limit)
}

func (r *postgresFoodRecordRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_records WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *postgresFoodRecordRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.FoodRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list food records: %w", err)
	}
	defer rows.Close()

	records := make([]models.FoodRecord, 0)
	for rows.Next() {
		record, scanErr := scanFoodRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan food record: %w", scanErr)
		}
		records = append(records, *record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func scanFoodRecord(row rowScanner) (*models.FoodRecord, error) {
	var record models.FoodRecord
	var image sql.NullString
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.FoodName,
		&record.Calories,
		&record.Weight,
		&image,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.ImageKey = stringPtr(image)
	return &record, nil
}
