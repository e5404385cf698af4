package user

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Table: users
type User struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;size:32;not null;uniqueIndex"`

	FirstName    string  `gorm:"column:first_name;size:64;not null"`
	LastName     string  `gorm:"column:last_name;size:64;not null"`
	Email        *string `gorm:"column:email;size:255;uniqueIndex"`
	PhoneNumber  string  `gorm:"column:phone_number;size:32;not null;uniqueIndex"`
	PasswordHash string  `gorm:"column:password_hash;size:255;not null"`

	ProfileImage     *string `gorm:"column:profile_image;type:text"`
	Gender           *Gender `gorm:"column:gender;size:8"`
	MaritalStatus    *string `gorm:"column:marital_status;size:32"`
	EmploymentStatus *string `gorm:"column:employment_status;size:32"`
	IDDocument       *string `gorm:"column:id_document;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
