// Package services holds the insert contracts for users and posts.
//
// Both creates check then insert without a transaction or unique index, so two
// concurrent requests can race: duplicate emails may both be stored, and an
// author removed between the check and the insert goes unnoticed.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/validators"
)

var (
	// ErrEmailInUse rejects a user whose email is already stored.
	ErrEmailInUse = errors.New("email already in use")
	// ErrAuthorNotFound rejects a post whose author does not resolve to a user.
	ErrAuthorNotFound = errors.New("author not found")
)

// CreateUser stores a new user and returns the stored record.
func CreateUser(ctx context.Context, db *gorm.DB, in validators.UserCreate) (models.User, error) {
	tx := db.WithContext(ctx)

	var existing int64
	if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if existing > 0 {
		return models.User{}, ErrEmailInUse
	}

	user := models.User{
		Name:     in.Name,
		LastName: in.LastName,
		Email:    in.Email,
		Role:     in.Role,
		State:    in.State,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	var stored models.User
	if err := tx.First(&stored, user.ID).Error; err != nil {
		return models.User{}, fmt.Errorf("reload user %d: %w", user.ID, err)
	}
	return stored, nil
}

// CreatePost stores a new post for an existing author and returns the stored record.
func CreatePost(ctx context.Context, db *gorm.DB, in validators.PostCreate) (models.Post, error) {
	tx := db.WithContext(ctx)

	var author models.User
	if err := tx.Select("id").Where("id = ?", in.Author).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Post{}, ErrAuthorNotFound
		}
		return models.Post{}, fmt.Errorf("check author: %w", err)
	}

	post := models.Post{
		Title:       in.Title,
		Description: in.Description,
		Author:      author.ID,
	}
	if err := tx.Create(&post).Error; err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}

	var stored models.Post
	if err := tx.First(&stored, post.ID).Error; err != nil {
		return models.Post{}, fmt.Errorf("reload post %d: %w", post.ID, err)
	}
	return stored, nil
}
