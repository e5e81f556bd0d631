package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type PropertyInput struct {
	Name        string `json:"name" validate:"required"`
	City        string `json:"city" validate:"required"`
	Description string `json:"description"`
	ManagerID   string `json:"managerId,omitempty"`
}

// PropertyPatch changes only the non-nil fields.
type PropertyPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	City        *string `json:"city,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"managerId,omitempty"`
}

// PropertyFiles are the optional uploads of a property form.
type PropertyFiles struct {
	Model     *Upload
	Thumbnail *Upload
}

type Properties struct {
	c *collection[domain.Property]
}

func NewProperties(d *Deps) *Properties {
	return &Properties{c: &collection[domain.Property]{name: domain.CollectionProperties, deps: d}}
}

func (r *Properties) ListAll(ctx context.Context) ([]domain.Property, error) {
	return r.c.list(ctx)
}

func (r *Properties) Get(ctx context.Context, id string) (domain.Property, error) {
	return r.c.get(ctx, id)
}

// Create uploads the files first; a failed upload aborts the submission
// before anything is written.
func (r *Properties) Create(ctx context.Context, in PropertyInput, files PropertyFiles) (domain.Property, error) {
	if err := check(in); err != nil {
		return domain.Property{}, err
	}

	now := r.c.deps.now()
	p := domain.Property{
		ID:          uuid.NewString(),
		Name:        in.Name,
		City:        in.City,
		Description: in.Description,
		ManagerID:   in.ManagerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	if p.ModelURL, p.Thumbnail, err = r.uploadFiles(ctx, files); err != nil {
		return domain.Property{}, err
	}

	data, err := encode(p)
	if err != nil {
		return domain.Property{}, err
	}
	if err := r.c.create(ctx, p.ID, data); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

// Update merges patch and replaces the model or thumbnail when a new file
// is given. Files previously referenced are left for the sweeper.
func (r *Properties) Update(ctx context.Context, id string, patch PropertyPatch, files PropertyFiles) (domain.Property, error) {
	if err := check(patch); err != nil {
		return domain.Property{}, err
	}
	if err := r.c.exists(ctx, id); err != nil {
		return domain.Property{}, err
	}

	data, err := encode(patch)
	if err != nil {
		return domain.Property{}, err
	}

	modelURL, thumbURL, err := r.uploadFiles(ctx, files)
	if err != nil {
		return domain.Property{}, err
	}
	if modelURL != "" {
		data["modelUrl"] = modelURL
	}
	if thumbURL != "" {
		data["thumbnail"] = thumbURL
	}
	data["updatedAt"] = r.c.deps.stamp()

	if err := r.c.merge(ctx, id, data); err != nil {
		return domain.Property{}, err
	}
	return r.c.get(ctx, id)
}

func (r *Properties) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

func (r *Properties) uploadFiles(ctx context.Context, files PropertyFiles) (modelURL, thumbURL string, err error) {
	if files.Model != nil {
		if modelURL, err = r.c.deps.upload(ctx, ModelPrefix, files.Model); err != nil {
			return "", "", err
		}
	}
	if files.Thumbnail != nil {
		if thumbURL, err = r.c.deps.upload(ctx, ThumbnailPrefix, files.Thumbnail); err != nil {
			return "", "", err
		}
	}
	return modelURL, thumbURL, nil
}
