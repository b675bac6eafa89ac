package models

// Role is a named permission group granted to users.
type Role struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:name;size:50;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`

	Users []User `gorm:"many2many:user_roles" json:"-"`
}
