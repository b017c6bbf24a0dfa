package ai

import (
	"context"
	"image"
	"math/rand"
	"sync"
	"time"

	"touristkiosk/internal/model"
)

// AttributeClassifier describes a visitor from their photo.
type AttributeClassifier interface {
	Classify(ctx context.Context, img image.Image) (model.Attributes, error)
}

// RandomClassifier is a stand-in until a real model exists: it ignores the
// pixels and draws every attribute uniformly from its enumeration.
type RandomClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomClassifier seeds from the clock.
func NewRandomClassifier() *RandomClassifier {
	return NewSeededClassifier(time.Now().UnixNano())
}

// NewSeededClassifier gives reproducible draws.
func NewSeededClassifier(seed int64) *RandomClassifier {
	return &RandomClassifier{rng: rand.New(rand.NewSource(seed))}
}

func (c *RandomClassifier) Classify(ctx context.Context, img image.Image) (model.Attributes, error) {
	_ = img
	if err := ctx.Err(); err != nil {
		return model.Attributes{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return model.Attributes{
		Age:       c.pick(model.AgeOptions),
		Gender:    c.pick(model.GenderOptions),
		Glasses:   c.pick(model.GlassesOptions),
		UpperWear: c.pick(model.UpperWearOptions),
		LowerWear: c.pick(model.LowerWearOptions),
	}, nil
}

func (c *RandomClassifier) pick(options []string) string {
	return options[c.rng.Intn(len(options))]
}

var _ AttributeClassifier = (*RandomClassifier)(nil)
