package calories

import (
	"context"
	"crypto/rand"
	"math/big"
)

// StubWeightGrams is the weight the random recognizer reports for every image.
const StubWeightGrams = 100.0

// Recognition is the result of analysing a food image.
type Recognition struct {
	FoodName string  `json:"food_name"`
	Per100g  float64 `json:"calorie_per_100g"`
	Weight   float64 `json:"weight"`
	Calories float64 `json:"calories"`
}

// FoodRecognizer identifies the food shown in a stored image.
type FoodRecognizer interface {
	Recognize(ctx context.Context, imageKey string) (*Recognition, error)
}

// Picker returns a value in [0, n). It exists so tests can pin the draw.
type Picker interface {
	Intn(n int) int
}

type cryptoPicker struct{}

func (cryptoPicker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// RandomRecognizer is a mock recognizer: it never looks at the image and
// reports a uniformly drawn table entry at StubWeightGrams.
type RandomRecognizer struct {
	picker Picker
}

// NewRandomRecognizer returns a RandomRecognizer. A nil picker uses crypto/rand.
func NewRandomRecognizer(picker Picker) *RandomRecognizer {
	if picker == nil {
		picker = cryptoPicker{}
	}
	return &RandomRecognizer{picker: picker}
}

var _ FoodRecognizer = (*RandomRecognizer)(nil)

func (r *RandomRecognizer) Recognize(_ context.Context, _ string) (*Recognition, error) {
	idx := r.picker.Intn(len(names))
	if idx < 0 || idx >= len(names) {
		idx = 0
	}
	name := names[idx]
	per := Lookup(name)
	kcal, err := Compute(name, StubWeightGrams)
	if err != nil {
		return nil, err
	}
	return &Recognition{
		FoodName: name,
		Per100g:  per,
		Weight:   StubWeightGrams,
		Calories: kcal,
	}, nil
}
