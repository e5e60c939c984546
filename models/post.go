package models

// Post is a content record owned by exactly one user through Author.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Author      uint   `gorm:"column:author;index;not null" json:"author"`
}
