package entity

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCarer   Role = "carer"
)

// Member links a user to an organization with a role. The notification
// history targets recipients by these roles.
type Member struct {
	Base

	UserID         string `gorm:"index:idx_member_user_org,unique"`
	OrganizationID string `gorm:"index:idx_member_user_org,unique"`
	Role           Role
}
