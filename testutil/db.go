// Package testutil provides an in-memory store for package tests.
package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/models"
)

// NewDB opens a fresh in-memory sqlite database with the users and posts tables.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:      "sqlite",
		DatabaseURI:   ":memory:",
		DBAutoMigrate: true,
		LogLevel:      "silent",
	}, &models.User{}, &models.Post{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// InsertUsers stores users as given and returns them with ids assigned.
func InsertUsers(t testing.TB, db *gorm.DB, users ...models.User) []models.User {
	t.Helper()
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("insert user %q: %v", users[i].Email, err)
		}
	}
	return users
}

// InsertPosts stores posts as given and returns them with ids assigned.
func InsertPosts(t testing.TB, db *gorm.DB, posts ...models.Post) []models.Post {
	t.Helper()
	for i := range posts {
		if err := db.Create(&posts[i]).Error; err != nil {
			t.Fatalf("insert post %q: %v", posts[i].Title, err)
		}
	}
	return posts
}

// User builds an active author with the given names and email.
func User(name, lastName, email string) models.User {
	return models.User{
		Name:     name,
		LastName: lastName,
		Email:    email,
		Role:     models.RoleAuthor,
		State:    models.StateActive,
	}
}
