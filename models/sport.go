package models

import (
	"fmt"
	"strings"
)

// Sport представляет вид спорта.
type Sport struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Positions string `json:"-" db:"positions"`

	PositionList []string    `json:"positions" db:"-"`
	Icon         string      `json:"icon" db:"-"`
	Images       SportImages `json:"images" db:"-"`
}

// SportImages - статические картинки вида спорта: баннер и фото звезд.
type SportImages struct {
	Background string   `json:"background,omitempty"`
	Stars      []string `json:"star_images"`
}

// ImagesBaseURL is the public path of the static sport images.
const ImagesBaseURL = "/images"

const starImagesPerSport = 3

var sportImageNames = map[string]string{
	"Basketball":   "basketball",
	"Football":     "football",
	"Volleyball":   "volleyball",
	"Table Tennis": "tabletennis",
	"Badminton":    "badminton",
	"Tennis":       "tennis",
	"Golf":         "golf",
	"Ice Hockey":   "icehockey",
}

// ImagesForSport returns the banner and star images of a sport.
// Unknown sports have none.
func ImagesForSport(name string) SportImages {
	base, ok := sportImageNames[name]
	if !ok {
		return SportImages{Stars: []string{}}
	}
	images := SportImages{
		Background: fmt.Sprintf("%s/%s_top_bg.jpg", ImagesBaseURL, base),
		Stars:      make([]string, 0, starImagesPerSport),
	}
	for i := 1; i <= starImagesPerSport; i++ {
		images.Stars = append(images.Stars, fmt.Sprintf("%s/%s_star%d.jpg", ImagesBaseURL, base, i))
	}
	return images
}

// DefaultAvatar picks a star image for a player without an uploaded avatar.
// The same player always gets the same picture.
func (i SportImages) DefaultAvatar(playerID int) string {
	if len(i.Stars) == 0 {
		return ""
	}
	idx := playerID % len(i.Stars)
	if idx < 0 {
		idx = -idx
	}
	return i.Stars[idx]
}

// SplitPositions разбирает список позиций, хранящийся через запятую.
func SplitPositions(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var sportIcons = map[string]string{
	"Basketball":   "bi-basketball",
	"Football":     "bi-futbol",
	"Volleyball":   "bi-volleyball",
	"Table Tennis": "bi-table-tennis",
	"Badminton":    "bi-badminton",
	"Tennis":       "bi-tennis-ball",
	"Golf":         "bi-golf",
	"Ice Hockey":   "bi-hockey-puck",
}

// SportIcon returns the icon class for a sport name.
func SportIcon(name string) string {
	if icon, ok := sportIcons[name]; ok {
		return icon
	}
	return "bi-trophy"
}

// Populate fills the derived fields from the stored ones.
func (s *Sport) Populate() {
	s.PositionList = SplitPositions(s.Positions)
	s.Icon = SportIcon(s.Name)
	s.Images = ImagesForSport(s.Name)
}

// DefaultSports are inserted at startup when missing.
var DefaultSports = []Sport{
	{Name: "Basketball", Positions: "Point Guard,Shooting Guard,Small Forward,Power Forward,Center"},
	{Name: "Football", Positions: "Goalkeeper,Defender,Midfielder,Forward,Winger"},
	{Name: "Volleyball", Positions: "Outside Hitter,Middle Blocker,Setter,Libero,Opposite"},
	{Name: "Table Tennis", Positions: "Singles,Doubles,Mixed Doubles"},
	{Name: "Badminton", Positions: "Singles,Doubles,Mixed Doubles"},
	{Name: "Tennis", Positions: "Singles,Doubles,Mixed Doubles"},
	{Name: "Golf", Positions: "Professional,Amateur"},
	{Name: "Ice Hockey", Positions: "Goaltender,Defenseman,Forward,Center,Winger"},
}
