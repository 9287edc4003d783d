package session

import (
	"github.com/filingkart/filingkart/internal/model"
)

// UserAccount represents a registered applicant in the database.
type UserAccount struct {
	model.BaseModel
	Email string `gorm:"type:varchar(255);column:email;uniqueIndex;not null" json:"email"`
	Name  string `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Phone string `gorm:"type:varchar(20);column:phone" json:"phone,omitempty"`
	Admin bool   `gorm:"type:boolean;column:admin;not null;default:false" json:"admin"`
}

// TableName specifies the database table name for UserAccount
func (u *UserAccount) TableName() string {
	return "user_accounts"
}
