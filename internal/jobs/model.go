package jobs

import (
	"github.com/filingkart/filingkart/internal/model"
)

// Job is an open position shown on the careers page.
type Job struct {
	model.BaseModel
	Title       string `gorm:"type:varchar(255);column:title;not null" json:"title"`
	Department  string `gorm:"type:varchar(100);column:department;not null" json:"department"`
	Location    string `gorm:"type:varchar(100);column:location;not null" json:"location"`
	Type        string `gorm:"type:varchar(50);column:type;not null;default:'full-time'" json:"type"`
	Description string `gorm:"type:text;column:description" json:"description,omitempty"`
	ApplyEmail  string `gorm:"type:varchar(255);column:apply_email;not null" json:"applyEmail"`
	Active      bool   `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (j *Job) TableName() string {
	return "jobs"
}
