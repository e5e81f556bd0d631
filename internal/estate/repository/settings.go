package repository

import (
	"context"
	"errors"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type SettingsRepo struct {
	c *collection[domain.Settings]
}

func NewSettings(d *Deps) *SettingsRepo {
	return &SettingsRepo{c: &collection[domain.Settings]{name: domain.CollectionSettings, deps: d}}
}

// Get returns the saved settings, or the defaults before the first save.
func (r *SettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	s, err := r.c.get(ctx, domain.SettingsDocID)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultSettings(), nil
	}
	return s, err
}

func (r *SettingsRepo) Save(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	if err := check(s); err != nil {
		return domain.Settings{}, err
	}
	s.UpdatedAt = r.c.deps.now()

	data, err := encode(s)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := r.c.create(ctx, domain.SettingsDocID, data); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}
