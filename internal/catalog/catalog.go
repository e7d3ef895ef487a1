// Package catalog serves the daily-challenge content from an embedded YAML
// file. The catalog is external content as far as the core is concerned:
// the services consume it through the ChallengeCatalog interface and never
// persist its questions.
package catalog

import (
	"embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

//go:embed challenges.yaml
var catalogFile embed.FS

type challengeFile struct {
	Challenges []models.Challenge `yaml:"challenges"`
}

// Catalog is a fixed, validated set of challenges with a deterministic
// daily rotation.
type Catalog struct {
	challenges []models.Challenge
	byID       map[string]*models.Challenge
	loc        *time.Location
	mu         sync.RWMutex
}

// New loads and validates the embedded challenge catalog. Days rotate at
// midnight in loc, the same location the services use for streak and
// availability boundaries.
func New(loc *time.Location) (services.ChallengeCatalog, error) {
	data, err := catalogFile.ReadFile("challenges.yaml")
	if err != nil {
		return nil, fmt.Errorf("read challenge catalog: %w", err)
	}

	var file challengeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal challenge catalog: %w", err)
	}

	if len(file.Challenges) == 0 {
		return nil, fmt.Errorf("challenge catalog is empty")
	}

	if loc == nil {
		loc = time.UTC
	}
	c := &Catalog{
		challenges: file.Challenges,
		byID:       make(map[string]*models.Challenge, len(file.Challenges)),
		loc:        loc,
	}

	for i := range c.challenges {
		ch := &c.challenges[i]
		if err := validateChallenge(ch); err != nil {
			return nil, fmt.Errorf("challenge %q: %w", ch.ID, err)
		}
		if _, dup := c.byID[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		c.byID[ch.ID] = ch
	}

	return c, nil
}

func validateChallenge(ch *models.Challenge) error {
	if ch.ID == "" {
		return fmt.Errorf("missing id")
	}
	if ch.Question == "" {
		return fmt.Errorf("missing question")
	}
	if len(ch.Options) < 2 {
		return fmt.Errorf("needs at least 2 options, has %d", len(ch.Options))
	}
	if ch.CorrectIndex < 0 || ch.CorrectIndex >= len(ch.Options) {
		return fmt.Errorf("correct_index %d out of range", ch.CorrectIndex)
	}
	if ch.Reward < 1 {
		return fmt.Errorf("reward must be at least 1, is %d", ch.Reward)
	}
	return nil
}

// PickDaily returns the challenge assigned to the given day. The rotation is
// a stable function of the calendar day in the catalog's location, so every
// caller sees the same challenge until local midnight.
func (c *Catalog) PickDaily(day time.Time) *models.Challenge {
	c.mu.RLock()
	defer c.mu.RUnlock()

	year, month, dom := day.In(c.loc).Date()
	days := time.Date(year, month, dom, 0, 0, 0, 0, time.UTC).Unix() / (24 * 60 * 60)
	idx := int(days % int64(len(c.challenges)))
	if idx < 0 {
		idx += len(c.challenges)
	}
	return &c.challenges[idx]
}

// GetByID returns a challenge by ID, or ErrNotFound
func (c *Catalog) GetByID(id string) (*models.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ch, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("challenge %s: %w", id, domain.ErrNotFound)
	}
	return ch, nil
}
