package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/team-manager/models"
)

var (
	ErrSportNotFound     = errors.New("sport not found")
	ErrSportNameConflict = errors.New("sport name conflict")
)

type SportRepository interface {
	Create(ctx context.Context, sport *models.Sport) error
	GetByID(ctx context.Context, id int) (*models.Sport, error)
	GetAll(ctx context.Context) ([]models.Sport, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type postgresSportRepository struct {
	db *sql.DB
}

func NewPostgresSportRepository(db *sql.DB) SportRepository {
	return &postgresSportRepository{db: db}
}

func (r *postgresSportRepository) Create(ctx context.Context, sport *models.Sport) error {
	query := `INSERT INTO sports (name, positions) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, sport.Name, sport.Positions).Scan(&sport.ID)
	if err != nil {
		if isUniqueViolation(err, "sports", "name") {
			return ErrSportNameConflict
		}
		return err
	}
	sport.Populate()
	return nil
}

func (r *postgresSportRepository) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	query := `SELECT id, name, positions FROM sports WHERE id = $1`

	var sport models.Sport
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sport.ID, &sport.Name, &sport.Positions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSportNotFound
		}
		return nil, err
	}
	sport.Populate()
	return &sport, nil
}

func (r *postgresSportRepository) GetAll(ctx context.Context) ([]models.Sport, error) {
	query := `SELECT id, name, positions FROM sports ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sports := make([]models.Sport, 0, len(models.DefaultSports))
	for rows.Next() {
		var sport models.Sport
		if scanErr := rows.Scan(&sport.ID, &sport.Name, &sport.Positions); scanErr != nil {
			return nil, scanErr
		}
		sport.Populate()
		sports = append(sports, sport)
	}

	// Критически важная проверка ошибки после цикла
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sports, nil
}

func (r *postgresSportRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sports WHERE name = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresSportRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sports`).Scan(&n)
	return n, err
}
