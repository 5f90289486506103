package models

import "time"

// Booking is a lead as stored by the backend. Date keeps the DD/MM/YYYY
// form the dashboard sends; Time is HH:MM.
type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID uint `gorm:"index;not null" json:"-"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Phone    string `gorm:"size:30;not null" json:"phone"`
	Problem  string `gorm:"type:text" json:"problem"`
	Source   string `gorm:"size:20;default:'Manual'" json:"source"`
	Status   string `gorm:"size:20;default:'Pending'" json:"status"`
	Priority string `gorm:"size:10" json:"priority,omitempty"`

	Date string `gorm:"size:10" json:"date"`
	Time string `gorm:"size:5" json:"time"`

	AgentID *string `gorm:"size:36" json:"-"`
	Agent   *Agent  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assignedAgent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
