package entity

type OrganizationType string

const (
	CareHome OrganizationType = "care_home"
	Agency   OrganizationType = "agency"
)

type Organization struct {
	Base

	Name      string
	Type      OrganizationType
	CreatedBy string
}
