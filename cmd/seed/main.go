// Command seed fills the configured store with random users and posts.
package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
	"github.com/cppla/postboard/validators"
)

var emailDomains = []string{"gmail.com", "mail.ru"}

func main() {
	users := flag.Int("users", 5, "number of users to create")
	posts := flag.Int("posts", 50, "number of posts to create")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(&models.User{}, &models.Post{})
	faker := gofakeit.New(*seed)
	ctx := context.Background()

	var authors []uint
	for i := 0; i < *users; i++ {
		first, last := faker.FirstName(), faker.LastName()
		in, err := validators.ParseUserCreate(map[string]any{
			"name":      first,
			"last_name": last,
			"email":     strings.ToLower(last + "." + first + "@" + faker.RandomString(emailDomains)),
			"role":      string(models.Roles[faker.Number(0, len(models.Roles)-1)]),
			"state":     string(models.States[faker.Number(0, len(models.States)-1)]),
		})
		if err != nil {
			utils.Sugar.Warnw("skipping generated user", "err", err)
			continue
		}
		user, err := services.CreateUser(ctx, db, in)
		if errors.Is(err, services.ErrEmailInUse) {
			utils.Sugar.Infow("email already seeded", "email", in.Email)
			continue
		}
		if err != nil {
			utils.Sugar.Fatalw("create user", "err", err)
		}
		authors = append(authors, user.ID)
	}

	if len(authors) == 0 {
		utils.Sugar.Warn("no new users created, skipping posts")
		return
	}

	created := 0
	for i := 0; i < *posts; i++ {
		in, err := validators.ParsePostCreate(map[string]any{
			"title":       truncate(faker.Sentence(faker.Number(2, 6)), 100),
			"description": faker.Paragraph(1, 3, 12, " "),
			"author":      int(authors[faker.Number(0, len(authors)-1)]),
		})
		if err != nil {
			utils.Sugar.Warnw("skipping generated post", "err", err)
			continue
		}
		if _, err := services.CreatePost(ctx, db, in); err != nil {
			utils.Sugar.Fatalw("create post", "err", err)
		}
		created++
	}

	utils.Sugar.Infow("seed complete", "users", len(authors), "posts", created)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
