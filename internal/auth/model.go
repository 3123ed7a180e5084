package auth

import (
	"time"

	"gorm.io/gorm"
)

// Role names used across the app
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleMember    = "member"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"column:full_name;size:100;not null" json:"name"`
	Email        string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	RoleID       uint           `gorm:"column:role_id;not null" json:"-"`
	Role         UserRole       `gorm:"foreignKey:RoleID" json:"role"`
	Status       string         `gorm:"size:20;default:active" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type UserRole struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoleName    string    `gorm:"size:50;uniqueIndex;not null" json:"role_name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// SeedUserRoles inserts the fixed role set if missing.
func SeedUserRoles(db *gorm.DB) error {
	roles := []UserRole{
		{RoleName: RoleAdmin, Description: "Platform administrator"},
		{RoleName: RoleOrganizer, Description: "Event organizer"},
		{RoleName: RoleMember, Description: "Community member"},
	}

	for _, role := range roles {
		var existing UserRole
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
