package model

type User struct {
	BaseModel
	UserID      int     `gorm:"primaryKey" json:"user_id"`
	UserName    string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail   string  `gorm:"unique;not null;type:varchar(50)" json:"user_email"`
	UserPhone   string  `gorm:"type:varchar(50)" json:"user_phone"`
	UserAddress string  `gorm:"type:varchar(255)" json:"user_address"`
	IsAdmin     bool    `gorm:"not null;default:false" json:"is_admin"`
	Orders      []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
}
