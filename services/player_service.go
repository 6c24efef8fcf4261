package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/storage"
)

type PlayerService interface {
	ListPlayers(ctx context.Context, scope Scope) ([]models.PlayerSummary, error)
	GetPlayer(ctx context.Context, scope Scope, id int) (*models.PlayerDetail, error)
	CreatePlayer(ctx context.Context, scope Scope, input PlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, scope Scope, id int, input PlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, scope Scope, id int) error
	UploadAvatar(ctx context.Context, scope Scope, file Upload) (*AvatarUpload, error)
	ReplaceAvatar(ctx context.Context, scope Scope, id int, file Upload) (*models.Player, error)
}

type PlayerInput struct {
	Name     string  `json:"name"`
	Number   int     `json:"number"`
	Position string  `json:"position"`
	Age      int     `json:"age"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	// SportID равен 0 - используется активный вид спорта.
	SportID   int     `json:"sport_id"`
	AvatarKey *string `json:"avatar_key"`
}

// Upload is an incoming file.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type AvatarUpload struct {
	Key string `json:"avatar_key"`
	URL string `json:"avatar_url"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	recordRepo repositories.RecordRepository
	uploader   storage.FileUploader
	avatars    playerAvatars
	notifier   Notifier
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	recordRepo repositories.RecordRepository,
	sportRepo repositories.SportRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		recordRepo: recordRepo,
		uploader:   uploader,
		avatars:    playerAvatars{uploader: uploader, sports: sportRepo},
		notifier:   notifierOrNop(notifier),
		logger:     logger,
	}
}

func (s *playerService) ListPlayers(ctx context.Context, scope Scope) ([]models.PlayerSummary, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	players, err := s.playerRepo.ListBySport(ctx, scope.SportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for sport %d: %w", scope.SportID, err)
	}
	scores, err := s.recordRepo.ScoresBySport(ctx, scope.SportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores for sport %d: %w", scope.SportID, err)
	}
	s.avatars.fillAll(ctx, players)
	return summarize(players, groupScores(scores)), nil
}

func (s *playerService) GetPlayer(ctx context.Context, scope Scope, id int) (*models.PlayerDetail, error) {
	player, err := s.loadPlayer(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByPlayer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for player %d: %w", id, err)
	}
	scores := make([]int, len(records))
	for i, r := range records {
		scores[i] = r.Score
	}

	s.avatars.fill(ctx, player)
	return &models.PlayerDetail{
		PlayerSummary: models.PlayerSummary{
			Player:        *player,
			AverageScore:  AverageScore(scores),
			TrainingCount: len(scores),
		},
		Records: records,
	}, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, scope Scope, input PlayerInput) (*models.Player, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}

	player := &models.Player{SportID: scope.SportID}
	if err := applyPlayerInput(player, input); err != nil {
		return nil, err
	}
	if input.AvatarKey != nil && *input.AvatarKey != "" {
		if err := checkStoredKey(*input.AvatarKey, storage.PlayerAvatarKeyPrefix(scope.SportID)); err != nil {
			return nil, err
		}
		player.AvatarKey = input.AvatarKey
	}

	err := s.playerRepo.Create(ctx, player)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerSportInvalid):
			return nil, invalidInputf("sport %d does not exist", player.SportID)
		case errors.Is(err, repositories.ErrPlayerAvatarTaken):
			return nil, ErrAvatarInUse
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.avatars.fill(ctx, player)
	s.logger.InfoContext(ctx, "Player created", slog.Int("player_id", player.ID), slog.Int("sport_id", player.SportID))
	s.notifier.Publish(player.SportID, EventPlayerCreated, player)
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, scope Scope, id int, input PlayerInput) (*models.Player, error) {
	player, err := s.loadPlayer(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	previousSport := player.SportID
	if err := applyPlayerInput(player, input); err != nil {
		return nil, err
	}

	var oldAvatar string
	if input.AvatarKey != nil && *input.AvatarKey != derefString(player.AvatarKey) {
		if *input.AvatarKey != "" {
			if err := checkStoredKey(*input.AvatarKey, storage.PlayerAvatarKeyPrefix(scope.SportID)); err != nil {
				return nil, err
			}
		}
		oldAvatar = derefString(player.AvatarKey)
		player.AvatarKey = input.AvatarKey
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerSportInvalid):
			return nil, invalidInputf("sport %d does not exist", player.SportID)
		case errors.Is(err, repositories.ErrPlayerAvatarTaken):
			return nil, ErrAvatarInUse
		}
		return nil, fmt.Errorf("failed to update player %d: %w", id, err)
	}

	s.removeReplacedFile(ctx, oldAvatar)
	s.avatars.fill(ctx, player)
	s.notifier.Publish(previousSport, EventPlayerUpdated, player)
	return player, nil
}

// DeletePlayer removes the avatar first; if that fails the player is kept.
func (s *playerService) DeletePlayer(ctx context.Context, scope Scope, id int) error {
	player, err := s.loadPlayer(ctx, scope, id)
	if err != nil {
		return err
	}

	if key := derefString(player.AvatarKey); key != "" {
		if err := s.uploader.Delete(ctx, key); err != nil {
			return storageFailure("delete player avatar", err)
		}
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Player deleted", slog.Int("player_id", id), slog.Int("sport_id", player.SportID))
	s.notifier.Publish(player.SportID, EventPlayerDeleted, deletedPayload{ID: id})
	return nil
}

func (s *playerService) UploadAvatar(ctx context.Context, scope Scope, file Upload) (*AvatarUpload, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	key, err := s.storeAvatar(ctx, scope.SportID, file)
	if err != nil {
		return nil, err
	}
	return &AvatarUpload{Key: key, URL: s.uploader.GetPublicURL(key)}, nil
}

func (s *playerService) ReplaceAvatar(ctx context.Context, scope Scope, id int, file Upload) (*models.Player, error) {
	player, err := s.loadPlayer(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	key, err := s.storeAvatar(ctx, scope.SportID, file)
	if err != nil {
		return nil, err
	}

	oldAvatar := derefString(player.AvatarKey)
	player.AvatarKey = &key
	if err := s.playerRepo.Update(ctx, player); err != nil {
		// новый файл больше никому не нужен
		s.removeReplacedFile(ctx, key)
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update avatar of player %d: %w", id, err)
	}

	s.removeReplacedFile(ctx, oldAvatar)
	s.avatars.fill(ctx, player)
	s.notifier.Publish(player.SportID, EventPlayerUpdated, player)
	return player, nil
}

func (s *playerService) loadPlayer(ctx context.Context, scope Scope, id int) (*models.Player, error) {
	if err := scope.RequireSport(); err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	if err := scope.CheckSport(player.SportID); err != nil {
		return nil, err
	}
	return player, nil
}

// storeAvatar uploads an avatar under the key prefix of sportID.
func (s *playerService) storeAvatar(ctx context.Context, sportID int, file Upload) (string, error) {
	if file.Reader == nil {
		return "", ErrImageRequired
	}
	ext, err := storage.ValidateImage(file.Filename, file.Size)
	if err != nil {
		return "", invalidInput(err)
	}
	key := storage.PlayerAvatarKey(sportID, ext)
	if _, err := s.uploader.Upload(ctx, key, storage.ContentTypeForExtension(ext), file.Reader); err != nil {
		return "", storageFailure("upload player avatar", err)
	}
	return key, nil
}

// removeReplacedFile deletes a file that is no longer referenced. Failures are only logged.
func (s *playerService) removeReplacedFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete replaced file", slog.String("key", key), slog.Any("error", err))
	}
}

func applyPlayerInput(player *models.Player, input PlayerInput) error {
	name, err := requireText("name", input.Name)
	if err != nil {
		return err
	}
	position, err := requireText("position", input.Position)
	if err != nil {
		return err
	}
	if input.Number < 0 {
		return invalidInputf("number must not be negative")
	}
	if input.Age < 0 {
		return invalidInputf("age must not be negative")
	}
	if err := requireNonNegative("height", input.Height); err != nil {
		return err
	}
	if err := requireNonNegative("weight", input.Weight); err != nil {
		return err
	}

	player.Name = name
	player.Number = input.Number
	player.Position = position
	player.Age = input.Age
	player.Height = input.Height
	player.Weight = input.Weight
	if input.SportID != 0 {
		player.SportID = input.SportID
	}
	return nil
}
