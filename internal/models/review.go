package models

// Review - отзыв игрока о мастере после игры.
// Создание отзыва пересчитывает агрегаты Rating/ReviewCount целевого мастера.
type Review struct {
	BaseModel
	Rating   int     `gorm:"not null" json:"rating"` // 1..5
	Comment  *string `json:"comment,omitempty"`
	AuthorID string  `gorm:"type:uuid;not null;index" json:"authorId"`
	TargetID string  `gorm:"type:uuid;not null;index" json:"targetId"` // мастер
	GameID   string  `gorm:"type:uuid;not null;index" json:"gameId"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
	Target *User `gorm:"foreignKey:TargetID" json:"-"`
	Game   *Game `gorm:"foreignKey:GameID" json:"-"`
}
