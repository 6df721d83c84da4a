package entity

type User struct {
	Base

	Name      string
	Email     string `gorm:"index"`
	AvatarURL string
}
