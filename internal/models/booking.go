package models

type Booking struct {
	BaseModel
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PlayerCount int           `gorm:"not null;default:1" json:"playerCount"`
	Message     *string       `json:"message,omitempty"`
	TotalPrice  *int          `json:"totalPrice,omitempty"`
	UserID      string        `gorm:"type:uuid;not null;index" json:"userId"`
	GameID      string        `gorm:"type:uuid;not null;index" json:"gameId"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Game *Game `gorm:"foreignKey:GameID" json:"-"`
}
