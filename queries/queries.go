package queries

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/postboard/models"
)

// ErrUserNotFound is returned by GetUser for an unknown id.
var ErrUserNotFound = errors.New("user not found")

// ListUsers evaluates spec against the users table.
func ListUsers(ctx context.Context, db *gorm.DB, spec ListSpec) (Envelope[models.User], error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&models.User{})
	}
	env, err := evaluate[models.User](base, spec, clause.Column{Table: "users", Name: "id"})
	if err != nil {
		return env, fmt.Errorf("list users: %w", err)
	}
	return env, nil
}

// GetUser loads a single user by id.
func GetUser(ctx context.Context, db *gorm.DB, id int) (models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// ListPosts evaluates spec against posts joined to their authors and returns bare posts.
func ListPosts(ctx context.Context, db *gorm.DB, spec ListSpec) (Envelope[models.Post], error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).
			Model(&models.Post{}).
			Select("posts.*").
			Joins("JOIN users ON users.id = posts.author")
	}
	env, err := evaluate[models.Post](base, spec, clause.Column{Table: "posts", Name: "id"})
	if err != nil {
		return env, fmt.Errorf("list posts: %w", err)
	}
	return env, nil
}

// evaluate runs the two independent queries of an envelope off the same spec:
// total_count ignores the pagination window, items applies it.
func evaluate[T any](base func() *gorm.DB, spec ListSpec, pk clause.Column) (Envelope[T], error) {
	env := Envelope[T]{TotalCount: []T{}, Items: []T{}}

	if err := base().Scopes(spec.filtered, spec.sorted(pk)).Find(&env.TotalCount).Error; err != nil {
		return env, fmt.Errorf("total_count: %w", err)
	}
	if err := base().Scopes(spec.filtered, spec.sorted(pk)).
		Limit(spec.Limit).
		Offset(spec.Offset).
		Find(&env.Items).Error; err != nil {
		return env, fmt.Errorf("items: %w", err)
	}

	if env.TotalCount == nil {
		env.TotalCount = []T{}
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	return env, nil
}
