package models

import "time"

// User represents the canonical identity entity.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"column:email;size:100;not null;uniqueIndex" json:"email"`
	FirstName    string    `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name;size:50;not null" json:"last_name"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// RoleNames returns the names of the user's assigned roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
