package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game - объявление игровой сессии (листинг каталога).
// Инварианты: CurrentPlayers <= MaxPlayers; для оффлайн-игры обязательны
// город и адрес; листинг с бронированиями не удаляется физически,
// а деактивируется.
type Game struct {
	BaseModel
	Title           string         `gorm:"not null;index" json:"title"`
	Description     string         `gorm:"not null" json:"description"`
	GameSystem      GameSystem     `gorm:"type:varchar(30);not null;index" json:"gameSystem"`
	Platform        *Platform      `gorm:"type:varchar(20)" json:"platform,omitempty"`
	MaxPlayers      int            `gorm:"not null" json:"maxPlayers"`
	CurrentPlayers  int            `gorm:"default:0" json:"currentPlayers"`
	PricePerSession *int           `json:"pricePerSession,omitempty"` // тенге, nil = бесплатно/по договоренности
	Duration        *int           `json:"duration,omitempty"`        // минуты
	Difficulty      Difficulty     `gorm:"type:varchar(30);not null;index" json:"difficulty"`
	Tags            datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	ImageURL        *string        `json:"imageUrl,omitempty"`
	IsOnline        bool           `gorm:"not null;index" json:"isOnline"`
	City            *string        `gorm:"index" json:"city,omitempty"`
	Address         *string        `json:"address,omitempty"`
	StartDate       time.Time      `gorm:"not null;index" json:"startDate"`
	EndDate         *time.Time     `json:"endDate,omitempty"`
	IsRecurring     bool           `gorm:"default:false" json:"isRecurring"`
	Language        Language       `gorm:"type:varchar(5);not null;index" json:"language"`
	IsActive        bool           `gorm:"default:true;index" json:"isActive"`
	GMID            string         `gorm:"type:uuid;not null;index" json:"gmId"`

	// Relations
	GM       *User     `gorm:"foreignKey:GMID" json:"-"`
	Bookings []Booking `gorm:"foreignKey:GameID" json:"-"`
	Reviews  []Review  `gorm:"foreignKey:GameID" json:"-"`
}

// HasSeats сообщает, осталось ли место для count игроков
func (g *Game) HasSeats(count int) bool {
	return g.CurrentPlayers+count <= g.MaxPlayers
}
