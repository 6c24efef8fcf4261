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
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerSportInvalid = errors.New("player sport does not exist")
	ErrPlayerAvatarTaken  = errors.New("avatar is already used by another player")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
	ListBySport(ctx context.Context, sportID int) ([]models.Player, error)
	ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.Player, error)
	CountBySport(ctx context.Context, sportID int) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, number, position, age, height, weight, join_date, avatar, sport_id`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, number, position, age, height, weight, join_date, avatar, sport_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	if player.JoinDate.IsZero() {
		player.JoinDate = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		player.Name,
		player.Number,
		player.Position,
		player.Age,
		player.Height,
		player.Weight,
		player.JoinDate,
		nullableString(player.AvatarKey),
		player.SportID,
	).Scan(&player.ID)
	if err != nil {
		if isForeignKeyViolation(err, "players_sport_id_fkey") {
			return ErrPlayerSportInvalid
		}
		if isUniqueViolation(err, "players", "avatar") {
			return ErrPlayerAvatarTaken
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	player, err := scanPlayer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			name = $1,
			number = $2,
			position = $3,
			age = $4,
			height = $5,
			weight = $6,
			avatar = $7,
			sport_id = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		player.Name,
		player.Number,
		player.Position,
		player.Age,
		player.Height,
		player.Weight,
		nullableString(player.AvatarKey),
		player.SportID,
		player.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err, "players_sport_id_fkey") {
			return ErrPlayerSportInvalid
		}
		if isUniqueViolation(err, "players", "avatar") {
			return ErrPlayerAvatarTaken
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// Delete удаляет игрока; его тренировочные записи удаляются каскадно.
func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ListBySport(ctx context.Context, sportID int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE sport_id = $1 ORDER BY number ASC, id ASC`
	return r.list(ctx, query, sportID)
}

func (r *postgresPlayerRepository) ListLatestBySport(ctx context.Context, sportID int, limit int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE sport_id = $1 ORDER BY join_date DESC, id DESC LIMIT $2`
	return r.list(ctx, query, sportID, limit)
}

func (r *postgresPlayerRepository) CountBySport(ctx context.Context, sportID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE sport_id = $1`, sportID).Scan(&n)
	return n, err
}

func (r *postgresPlayerRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player: %w", scanErr)
		}
		players = append(players, *player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var player models.Player
	var avatar sql.NullString
	err := row.Scan(
		&player.ID,
		&player.Name,
		&player.Number,
		&player.Position,
		&player.Age,
		&player.Height,
		&player.Weight,
		&player.JoinDate,
		&avatar,
		&player.SportID,
	)
	if err != nil {
		return nil, err
	}
	player.AvatarKey = stringPtr(avatar)
	return &player, nil
}
