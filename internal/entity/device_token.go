package entity

// DeviceToken stores the push token of one physical device. A device
// re-registering under the same (user, identifier) pair replaces its previous
// token, which is how stale tokens get retired on the next login.
type DeviceToken struct {
	Base

	UserID           string `gorm:"index:idx_device_user_identifier,unique"`
	DeviceIdentifier string `gorm:"index:idx_device_user_identifier,unique"`
	DeviceType       string
	Token            string
}
