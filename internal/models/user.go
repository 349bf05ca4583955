package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Avatar       *string  `json:"avatar,omitempty"`
	Bio          *string  `json:"bio,omitempty"`
	City         *string  `json:"city,omitempty"`
	Language     Language `gorm:"type:varchar(5);default:'RU'" json:"language"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'player'" json:"role"`
	IsGM         bool     `gorm:"default:false" json:"isGM"`
	IsVerified   bool     `gorm:"default:false" json:"isVerified"`

	// Агрегаты рейтинга - производные, пересчитываются из отзывов
	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount"`

	// Relations
	Games    []Game    `gorm:"foreignKey:GMID" json:"-"`
	Bookings []Booking `gorm:"foreignKey:UserID" json:"-"`
}
