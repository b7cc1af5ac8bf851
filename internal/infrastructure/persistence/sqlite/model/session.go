package model

type Session struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	UserID      string `gorm:"column:user_id;type:text;not null"`
	Name        string `gorm:"column:name;type:text;not null"`
	Email       string `gorm:"column:email;type:text;not null"`
	JobTitle    string `gorm:"column:job_title;type:text"`
	Photo       string `gorm:"column:photo;type:text"`
	AccessToken string `gorm:"column:access_token;type:text;not null"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
	ExpiresAt   string `gorm:"column:expires_at;type:text;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
