package queries

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/testutil"
	"github.com/cppla/postboard/validators"
)

func ptr[T any](v T) *T { return &v }

func seedUsers(t *testing.T, db *gorm.DB) []models.User {
	t.Helper()
	return testutil.InsertUsers(t, db,
		testutil.User("Oleg", "Ivanov", "ivanov.oleg@gmail.com"),
		testutil.User("Alice", "Salahov", "alice@gmail.com"),
		testutil.User("Bob", "Korochov", "bob@mail.ru"),
		testutil.User("alina", "Sapagov", "alina@mail.ru"),
		testutil.User("Bob", "Shevchuck", "bob2@mail.ru"),
		testutil.User("Malice", "Ivanov", "malice@gmail.com"),
	)
}

func ids[T any](rows []T, id func(T) uint) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func userIDs(users []models.User) []uint {
	return ids(users, func(u models.User) uint { return u.ID })
}

func postIDs(posts []models.Post) []uint {
	return ids(posts, func(p models.Post) uint { return p.ID })
}

func TestListUsersEmailFilter(t *testing.T) {
	db := testutil.NewDB(t)
	users := seedUsers(t, db)

	env, err := ListUsers(context.Background(), db, ListSpec{Email: ptr("alice@gmail.com"), Limit: 5})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	want := []models.User{users[1]}
	if !reflect.DeepEqual(env.TotalCount, want) || !reflect.DeepEqual(env.Items, want) {
		t.Fatalf("got total=%+v items=%+v, want %+v in both", env.TotalCount, env.Items, want)
	}
}

func TestListUsersNameSubstrIsCaseSensitive(t *testing.T) {
	db := testutil.NewDB(t)
	users := seedUsers(t, db)

	env, err := ListUsers(context.Background(), db, ListSpec{NameSubstr: ptr("Al"), Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if got, want := userIDs(env.TotalCount), []uint{users[1].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("name_substr=Al: got %v, want %v", got, want)
	}

	env, err = ListUsers(context.Background(), db, ListSpec{NameSubstr: ptr("li"), Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	want := []uint{users[1].ID, users[3].ID, users[5].ID}
	if got := userIDs(env.TotalCount); !reflect.DeepEqual(got, want) {
		t.Fatalf("name_substr=li: got %v, want %v", got, want)
	}

	// the pattern is matched literally
	env, err = ListUsers(context.Background(), db, ListSpec{NameSubstr: ptr("%"), Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(env.TotalCount) != 0 {
		t.Fatalf("name_substr=%%: expected no rows, got %v", userIDs(env.TotalCount))
	}
}

func TestListUsersSortReversal(t *testing.T) {
	db := testutil.NewDB(t)
	seedUsers(t, db)
	ctx := context.Background()

	for _, field := range []validators.SortField{validators.SortName, validators.SortLastName, validators.SortEmail} {
		asc, err := ListUsers(ctx, db, ListSpec{Sort: &validators.OrderBy{Field: field}, Limit: 10})
		if err != nil {
			t.Fatalf("asc %s: %v", field, err)
		}
		desc, err := ListUsers(ctx, db, ListSpec{Sort: &validators.OrderBy{Field: field, Desc: true}, Limit: 10})
		if err != nil {
			t.Fatalf("desc %s: %v", field, err)
		}
		a, d := userIDs(asc.TotalCount), userIDs(desc.TotalCount)
		if len(a) != 6 || len(d) != 6 {
			t.Fatalf("%s: expected 6 rows, got %d and %d", field, len(a), len(d))
		}
		for i := range a {
			if a[i] != d[len(d)-1-i] {
				t.Fatalf("%s: desc %v is not the reverse of asc %v", field, d, a)
			}
		}
	}
}

func TestListUsersSortByName(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUsers(t, db)

	env, err := ListUsers(context.Background(), db, ListSpec{Sort: &validators.OrderBy{Field: validators.SortName}, Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	// byte order: upper case sorts before lower case; the two Bobs tie and keep id order
	want := []uint{u[1].ID, u[2].ID, u[4].ID, u[5].ID, u[0].ID, u[3].ID}
	if got := userIDs(env.TotalCount); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestListUsersUnknownSortIgnored(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUsers(t, db)

	env, err := ListUsers(context.Background(), db, ListSpec{Sort: &validators.OrderBy{Field: "role"}, Limit: 10})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if got, want := userIDs(env.TotalCount), userIDs(u); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected primary key order %v, got %v", want, got)
	}
}

func TestListUsersPaginationWindow(t *testing.T) {
	db := testutil.NewDB(t)
	seedUsers(t, db)
	ctx := context.Background()

	for _, tt := range []struct{ limit, offset int }{
		{5, 0}, {2, 1}, {2, 4}, {3, 5}, {10, 0}, {0, 0}, {4, 6}, {1, 20},
	} {
		env, err := ListUsers(ctx, db, ListSpec{
			Sort:   &validators.OrderBy{Field: validators.SortEmail, Desc: true},
			Limit:  tt.limit,
			Offset: tt.offset,
		})
		if err != nil {
			t.Fatalf("limit=%d offset=%d: %v", tt.limit, tt.offset, err)
		}
		if len(env.TotalCount) != 6 {
			t.Fatalf("total_count must ignore pagination, got %d rows", len(env.TotalCount))
		}
		if len(env.Items) > tt.limit {
			t.Fatalf("limit=%d: got %d items", tt.limit, len(env.Items))
		}
		start := min(tt.offset, len(env.TotalCount))
		end := min(start+tt.limit, len(env.TotalCount))
		if want := env.TotalCount[start:end]; !reflect.DeepEqual(env.Items, want) {
			t.Fatalf("limit=%d offset=%d: items %v, want %v", tt.limit, tt.offset, userIDs(env.Items), userIDs(want))
		}
	}
}

func TestListUsersEmptyResult(t *testing.T) {
	db := testutil.NewDB(t)
	seedUsers(t, db)

	env, err := ListUsers(context.Background(), db, ListSpec{Email: ptr("nobody@example.com"), Limit: 5})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if env.TotalCount == nil || env.Items == nil {
		t.Fatal("empty results must be empty slices, not nil")
	}
	if len(env.TotalCount) != 0 || len(env.Items) != 0 {
		t.Fatalf("expected empty envelope, got %+v", env)
	}
}

func TestListUsersIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	seedUsers(t, db)
	spec := ListSpec{Sort: &validators.OrderBy{Field: validators.SortLastName}, NameSubstr: ptr("o"), Limit: 2, Offset: 1}

	first, err := ListUsers(context.Background(), db, spec)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := ListUsers(context.Background(), db, spec)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated query differs: %+v vs %+v", first, second)
	}
}

func TestGetUser(t *testing.T) {
	db := testutil.NewDB(t)
	u := seedUsers(t, db)

	got, err := GetUser(context.Background(), db, int(u[2].ID))
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !reflect.DeepEqual(got, u[2]) {
		t.Fatalf("got %+v, want %+v", got, u[2])
	}

	if _, err := GetUser(context.Background(), db, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func seedPosts(t *testing.T, db *gorm.DB, users []models.User) []models.Post {
	t.Helper()
	return testutil.InsertPosts(t, db,
		models.Post{Title: "kino teatr", Description: "creating", Author: users[0].ID},    // Oleg
		models.Post{Title: "proekt", Description: "creating", Author: users[1].ID},        // Alice
		models.Post{Title: "20 veka", Description: "creating", Author: users[2].ID},       // Bob
		models.Post{Title: "teatr kino", Description: "creating", Author: users[1].ID},    // Alice
		models.Post{Title: "mezhdunarodny", Description: "creating", Author: users[3].ID}, // alina
	)
}

func TestListPostsPaginationExample(t *testing.T) {
	db := testutil.NewDB(t)
	posts := seedPosts(t, db, seedUsers(t, db))

	env, err := ListPosts(context.Background(), db, ListSpec{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if !reflect.DeepEqual(env.TotalCount, posts) {
		t.Fatalf("total_count: got %v, want %v", postIDs(env.TotalCount), postIDs(posts))
	}
	if !reflect.DeepEqual(env.Items, posts[1:3]) {
		t.Fatalf("items: got %v, want %v", postIDs(env.Items), postIDs(posts[1:3]))
	}
}

func TestListPostsSortsByAuthorFields(t *testing.T) {
	db := testutil.NewDB(t)
	p := seedPosts(t, db, seedUsers(t, db))
	ctx := context.Background()

	env, err := ListPosts(ctx, db, ListSpec{Sort: &validators.OrderBy{Field: validators.SortName}, Limit: 10})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	// Alice, Alice, Bob, Oleg, alina
	want := []uint{p[1].ID, p[3].ID, p[2].ID, p[0].ID, p[4].ID}
	if got := postIDs(env.TotalCount); !reflect.DeepEqual(got, want) {
		t.Fatalf("asc: got %v, want %v", got, want)
	}

	env, err = ListPosts(ctx, db, ListSpec{Sort: &validators.OrderBy{Field: validators.SortName, Desc: true}, Limit: 10})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	reversed := []uint{want[4], want[3], want[2], want[1], want[0]}
	if got := postIDs(env.TotalCount); !reflect.DeepEqual(got, reversed) {
		t.Fatalf("desc: got %v, want %v", got, reversed)
	}
}

func TestListPostsAuthorFilter(t *testing.T) {
	db := testutil.NewDB(t)
	users := seedUsers(t, db)
	p := seedPosts(t, db, users)

	env, err := ListPosts(context.Background(), db, ListSpec{Author: ptr(int(users[1].ID)), Limit: 1})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if got, want := postIDs(env.TotalCount), []uint{p[1].ID, p[3].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("total_count: got %v, want %v", got, want)
	}
	if got, want := postIDs(env.Items), []uint{p[1].ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("items: got %v, want %v", got, want)
	}

	env, err = ListPosts(context.Background(), db, ListSpec{Author: ptr(12345), Limit: 5})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(env.TotalCount) != 0 || len(env.Items) != 0 || env.Items == nil {
		t.Fatalf("unknown author: expected empty envelope, got %+v", env)
	}
}

func TestSpecFromParams(t *testing.T) {
	order := &validators.OrderBy{Field: validators.SortEmail}
	us := UserSpec(validators.UserListParams{ID: ptr(3), OrderBy: order, Email: ptr("a@b.co"), Limit: 5, Offset: 2})
	if us.Sort != order || *us.Email != "a@b.co" || us.Limit != 5 || us.Offset != 2 || us.Author != nil {
		t.Fatalf("UserSpec: %+v", us)
	}
	ps := PostSpec(validators.PostListParams{Author: ptr(4), Limit: 1})
	if *ps.Author != 4 || ps.Limit != 1 || ps.Email != nil || ps.NameSubstr != nil {
		t.Fatalf("PostSpec: %+v", ps)
	}
}

func TestSubstringCondition(t *testing.T) {
	for dialect, want := range map[string]string{
		"mysql":    "INSTR(BINARY users.name, ?) > 0",
		"postgres": "strpos(users.name, ?) > 0",
		"sqlite":   "instr(users.name, ?) > 0",
	} {
		if got := substringCondition(dialect); got != want {
			t.Fatalf("%s: got %q, want %q", dialect, got, want)
		}
	}
}
