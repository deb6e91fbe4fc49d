package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile is the single professional profile owned by an account.
type Profile struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	UserID         uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *Owner                      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company        string                      `json:"company"`
	Website        string                      `json:"website"`
	Location       string                      `json:"location"`
	Status         string                      `gorm:"not null" json:"status"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	Bio            string                      `gorm:"type:text" json:"bio"`
	GithubUsername string                      `json:"githubusername"`
	Social         Social                      `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     []Experience                `gorm:"foreignKey:ProfileID" json:"experience"`
	Education      []Education                 `gorm:"foreignKey:ProfileID" json:"education"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// Social holds the optional social network links of a profile.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one job entry of a profile.
type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProfileID   uint       `gorm:"not null;index" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Company     string     `gorm:"not null" json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `gorm:"column:from_date;not null" json:"from"`
	To          *time.Time `gorm:"column:to_date" json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}

// Education is one school entry of a profile.
type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProfileID    uint       `gorm:"not null;index" json:"-"`
	School       string     `gorm:"not null" json:"school"`
	Degree       string     `gorm:"not null" json:"degree"`
	FieldOfStudy string     `gorm:"not null" json:"fieldofstudy"`
	From         time.Time  `gorm:"column:from_date;not null" json:"from"`
	To           *time.Time `gorm:"column:to_date" json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}

// TableName keeps the singular collection name.
func (Education) TableName() string {
	return "educations"
}
