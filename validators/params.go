package validators

import (
	"strings"

	"github.com/cppla/postboard/models"
)

const (
	// DescendingMarker prefixes an order_by value to reverse the sort.
	DescendingMarker = "-"

	DefaultLimit  = 5
	DefaultOffset = 0
)

// SortField names a user column a list may be ordered by.
type SortField string

const (
	SortName     SortField = "name"
	SortLastName SortField = "last_name"
	SortEmail    SortField = "email"
)

// OrderBy is a parsed order_by value.
type OrderBy struct {
	Field SortField
	Desc  bool
}

// UserListParams is the validated input of the user list query.
type UserListParams struct {
	ID         *int
	OrderBy    *OrderBy
	Email      *string
	NameSubstr *string
	Limit      int
	Offset     int
}

// PostListParams is the validated input of the post list query.
type PostListParams struct {
	OrderBy *OrderBy
	Author  *int
	Limit   int
	Offset  int
}

// UserCreate is the validated body of a user create request.
type UserCreate struct {
	Name     string
	LastName string
	Email    string
	Role     models.Role
	State    models.State
}

// PostCreate is the validated body of a post create request.
type PostCreate struct {
	Title       string
	Description string
	Author      uint
}

var (
	userListKeys = []string{"id", "order_by", "email", "name_substr", "limit", "offset"}
	postListKeys = []string{"order_by", "author", "limit", "offset"}

	roleRule = oneOf("Expected author or editor.",
		string(models.RoleAuthor), string(models.RoleEditor))
	stateRule = oneOf("Expected active or inactive or deleted.",
		string(models.StateActive), string(models.StateInactive), string(models.StateDeleted))
)

// ParseUserList validates the parameters of GET /api/users.
func ParseUserList(in map[string]any) (UserListParams, error) {
	f := newFields(in)
	if !f.present(userListKeys...) {
		return UserListParams{}, ErrNoParams
	}

	p := UserListParams{Limit: DefaultLimit, Offset: DefaultOffset}
	if id, ok := f.integer("id", false); ok {
		p.ID = &id
	}
	p.OrderBy = f.orderBy()
	if email, ok := f.text("email", false, emailShaped); ok {
		p.Email = &email
	}
	if sub, ok := f.text("name_substr", false); ok {
		p.NameSubstr = &sub
	}
	f.pagination(&p.Limit, &p.Offset)

	if err := f.err.err(); err != nil {
		return UserListParams{}, err
	}
	return p, nil
}

// ParsePostList validates the parameters of GET /api/posts.
func ParsePostList(in map[string]any) (PostListParams, error) {
	f := newFields(in)
	if !f.present(postListKeys...) {
		return PostListParams{}, ErrNoParams
	}

	p := PostListParams{Limit: DefaultLimit, Offset: DefaultOffset}
	p.OrderBy = f.orderBy()
	if author, ok := f.integer("author", false); ok {
		p.Author = &author
	}
	f.pagination(&p.Limit, &p.Offset)

	if err := f.err.err(); err != nil {
		return PostListParams{}, err
	}
	return p, nil
}

// ParseUserCreate validates the body of POST /api/users.
func ParseUserCreate(in map[string]any) (UserCreate, error) {
	f := newFields(in)
	name, _ := f.text("name", true, notBlank)
	lastName, _ := f.text("last_name", true, notBlank)
	email, _ := f.text("email", true, notBlank, emailShaped)
	role, _ := f.text("role", true, notBlank, roleRule)
	state, _ := f.text("state", true, notBlank, stateRule)

	if err := f.err.err(); err != nil {
		return UserCreate{}, err
	}
	return UserCreate{
		Name:     name,
		LastName: lastName,
		Email:    email,
		Role:     models.Role(role),
		State:    models.State(state),
	}, nil
}

// ParsePostCreate validates the body of POST /api/posts.
func ParsePostCreate(in map[string]any) (PostCreate, error) {
	f := newFields(in)
	title, _ := f.text("title", true, notBlank)
	description, _ := f.text("description", true, notBlank)
	author, _ := f.integer("author", true, nonZero)

	if err := f.err.err(); err != nil {
		return PostCreate{}, err
	}
	p := PostCreate{Title: title, Description: description}
	if author > 0 {
		p.Author = uint(author)
	}
	return p, nil
}

// ParseOrderBy splits an order_by value into its field and direction.
func ParseOrderBy(raw string) (OrderBy, bool) {
	desc := strings.HasPrefix(raw, DescendingMarker)
	field := SortField(strings.TrimPrefix(raw, DescendingMarker))
	switch field {
	case SortName, SortLastName, SortEmail:
		return OrderBy{Field: field, Desc: desc}, true
	}
	return OrderBy{}, false
}

func (f *fields) orderBy() *OrderBy {
	raw, ok := f.text("order_by", false)
	if !ok {
		return nil
	}
	ob, ok := ParseOrderBy(raw)
	if !ok {
		f.err.Add("order_by", "Expected name or last_name or email")
		return nil
	}
	return &ob
}

func (f *fields) pagination(limit, offset *int) {
	if n, ok := f.integer("limit", false, nonNegative); ok {
		*limit = n
	}
	if n, ok := f.integer("offset", false, nonNegative); ok {
		*offset = n
	}
}
