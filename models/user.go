package models

// Role is the editorial role of a user.
type Role string

const (
	RoleAuthor Role = "author"
	RoleEditor Role = "editor"
)

// Roles lists the accepted roles in display order.
var Roles = []Role{RoleAuthor, RoleEditor}

// State is the account state of a user.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
	StateDeleted  State = "deleted"
)

// States lists the accepted states in display order.
var States = []State{StateActive, StateInactive, StateDeleted}

// User is an identity and profile record. Email uniqueness is enforced on
// create, not by the schema, so the email index is non-unique.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null;index" json:"name"`
	LastName string `gorm:"size:50;not null" json:"last_name"`
	Email    string `gorm:"size:50;not null;index" json:"email"`
	Role     Role   `gorm:"size:20;not null" json:"role"`
	State    State  `gorm:"size:20;not null" json:"state"`
	Posts    []Post `gorm:"foreignKey:Author" json:"-"`
}
