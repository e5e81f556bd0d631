package repository

import (
	"context"
	"strings"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

// ProfileFields are supplied at sign-up.
type ProfileFields struct {
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Role  access.Role `json:"role"`
}

type UserPatch struct {
	Name             *string      `json:"name,omitempty"`
	Role             *access.Role `json:"role,omitempty" validate:"omitempty,role"`
	Phone            *string      `json:"phone,omitempty"`
	Language         *string      `json:"language,omitempty" validate:"omitempty,oneof=en ar"`
	LinkedProperties []string     `json:"linkedProperties,omitempty"`
	Favorites        []string     `json:"favorites,omitempty"`
}

// Users stores profile documents keyed by principal id.
type Users struct {
	c *collection[domain.User]
}

func NewUsers(d *Deps) *Users {
	return &Users{c: &collection[domain.User]{name: domain.CollectionUsers, deps: d}}
}

func (r *Users) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.c.list(ctx)
}

func (r *Users) Get(ctx context.Context, uid string) (domain.User, error) {
	return r.c.get(ctx, uid)
}

// Create writes the profile of a newly registered principal with no linked
// properties or favorites and English as its language.
func (r *Users) Create(ctx context.Context, uid, email string, fields ProfileFields) (domain.User, error) {
	if fields.Role == "" {
		fields.Role = access.RoleTenant
	}

	u := domain.User{
		ID:               uid,
		Email:            strings.TrimSpace(email),
		Name:             strings.TrimSpace(fields.Name),
		Phone:            strings.TrimSpace(fields.Phone),
		Role:             fields.Role,
		LinkedProperties: []string{},
		Favorites:        []string{},
		Language:         domain.LangEnglish,
		CreatedAt:        r.c.deps.now(),
	}
	if err := check(u); err != nil {
		return domain.User{}, err
	}

	data, err := encode(u)
	if err != nil {
		return domain.User{}, err
	}
	delete(data, "updatedAt")

	if err := r.c.create(ctx, uid, data); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *Users) Update(ctx context.Context, uid string, patch UserPatch) (domain.User, error) {
	if err := check(patch); err != nil {
		return domain.User{}, err
	}

	data, err := encode(patch)
	if err != nil {
		return domain.User{}, err
	}
	data["updatedAt"] = r.c.deps.stamp()

	if err := r.c.merge(ctx, uid, data); err != nil {
		return domain.User{}, err
	}
	return r.c.get(ctx, uid)
}

// Delete removes the profile document only; the account itself stays with
// the authentication service.
func (r *Users) Delete(ctx context.Context, uid string) error {
	return r.c.remove(ctx, uid)
}
