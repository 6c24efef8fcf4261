package services

import (
	"context"
	"strings"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/storage"
)

// Типы событий, публикуемых в живую ленту вида спорта.
const (
	EventPlayerCreated = "player.created"
	EventPlayerUpdated = "player.updated"
	EventPlayerDeleted = "player.deleted"
	EventPlanCreated   = "plan.created"
	EventPlanUpdated   = "plan.updated"
	EventPlanDeleted   = "plan.deleted"
	EventRecordCreated = "record.created"
	EventRecordDeleted = "record.deleted"
)

// Notifier receives change events of one sport.
type Notifier interface {
	Publish(sportID int, event string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(int, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

type deletedPayload struct {
	ID int `json:"id"`
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// playerAvatars fills avatar URLs of players. A player without an uploaded
// avatar gets one of the star images of its sport.
type playerAvatars struct {
	uploader storage.FileUploader
	sports   repositories.SportRepository
}

func (a playerAvatars) fill(ctx context.Context, player *models.Player) {
	if player == nil {
		return
	}
	a.fillList(ctx, []*models.Player{player})
}

func (a playerAvatars) fillAll(ctx context.Context, players []models.Player) {
	ptrs := make([]*models.Player, len(players))
	for i := range players {
		ptrs[i] = &players[i]
	}
	a.fillList(ctx, ptrs)
}

func (a playerAvatars) fillList(ctx context.Context, players []*models.Player) {
	images := make(map[int]models.SportImages)
	for _, p := range players {
		p.AvatarURL = nil
		if key := derefString(p.AvatarKey); key != "" && a.uploader != nil {
			if url := a.uploader.GetPublicURL(key); url != "" {
				p.AvatarURL = &url
				continue
			}
		}
		if a.sports == nil {
			continue
		}
		sportImages, ok := images[p.SportID]
		if !ok {
			// без вида спорта просто нет картинки по умолчанию
			if sport, err := a.sports.GetByID(ctx, p.SportID); err == nil {
				sportImages = sport.Images
			}
			images[p.SportID] = sportImages
		}
		if url := sportImages.DefaultAvatar(p.ID); url != "" {
			p.AvatarURL = &url
		}
	}
}

func populateFoodImageURL(record *models.FoodRecord, uploader storage.FileUploader) {
	if record != nil && record.ImageKey != nil && *record.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*record.ImageKey)
		if url != "" {
			record.ImageURL = &url
		}
	}
}

func populateFoodListImageURLs(records []models.FoodRecord, uploader storage.FileUploader) {
	for i := range records {
		populateFoodImageURL(&records[i], uploader)
	}
}

// groupScores turns a flat score list into scores per player.
func groupScores(scores []repositories.PlayerScore) map[int][]int {
	grouped := make(map[int][]int)
	for _, s := range scores {
		grouped[s.PlayerID] = append(grouped[s.PlayerID], s.Score)
	}
	return grouped
}

func flattenScores(scores []repositories.PlayerScore) []int {
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = s.Score
	}
	return out
}

// checkStoredKey accepts only keys produced by storage.*Key for the given prefix.
func checkStoredKey(key, prefix string) error {
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") || strings.Contains(key, "//") {
		return invalidInputf("invalid file reference %q", key)
	}
	if _, err := storage.ImageExtension(key); err != nil {
		return invalidInput(err)
	}
	return nil
}

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", invalidInputf("%s is required", field)
	}
	return v, nil
}

func requireNonNegative(field string, value float64) error {
	if value < 0 {
		return invalidInputf("%s must not be negative", field)
	}
	return nil
}

