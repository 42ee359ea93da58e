package domain

import (
	"time"
)

type SysConfig struct {
	ID        int64     `json:"id,string" form:"id"`
	Sort      int       `json:"sort" form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

// QuoteSubmission records one submitted quote request so operators can
// review past requests. Items holds the submitted line list as JSON in
// the collaborator contract shape.
type QuoteSubmission struct {
	ID        int64     `json:"id,string"`
	Company   string    `gorm:"index" json:"company"`
	Name      string    `json:"name"`
	Email     string    `gorm:"index" json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Items     string    `json:"items"`
	ItemCount int       `json:"item_count"`
	MailSent  bool      `json:"mail_sent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (QuoteSubmission) TableName() string {
	return "quote_submission"
}
