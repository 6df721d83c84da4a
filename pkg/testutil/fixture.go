package testutil

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/repository"
)

// Fixture identities shared across tests.
const (
	User1     = "user1"
	User2     = "user2"
	AdminUser = "admin1"

	CareHome1 = "care_home1"
	Agency1   = "agency1"
)

// CreateFixture populates the context's database with two organizations and
// their members: admin1 administers both, user1 and user2 are carers of the
// care home, user1 also works for the agency.
func CreateFixture(ctx context.Context) {
	insertUsers(ctx)
	insertOrganizations(ctx)
	insertMembers(ctx)
	insertDeviceTokens(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	users := []entity.User{
		{Base: entity.Base{ID: User1}, Name: "User One", Email: "user1@example.com"},
		{Base: entity.Base{ID: User2}, Name: "User Two", Email: "user2@example.com"},
		{Base: entity.Base{ID: AdminUser}, Name: "Admin One", Email: "admin1@example.com"},
	}
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			panic(err)
		}
	}
}

func insertOrganizations(ctx context.Context) {
	orgRepo := repository.NewOrganizationRepository()

	orgs := []entity.Organization{
		{Base: entity.Base{ID: CareHome1}, Name: "Sunrise Care", Type: entity.CareHome, CreatedBy: AdminUser},
		{Base: entity.Base{ID: Agency1}, Name: "Bright Agency", Type: entity.Agency, CreatedBy: AdminUser},
	}
	for i := range orgs {
		if err := orgRepo.Create(ctx, &orgs[i]); err != nil {
			panic(err)
		}
	}
}

func insertMembers(ctx context.Context) {
	memberRepo := repository.NewMemberRepository()

	members := []entity.Member{
		{Base: entity.Base{ID: "member1"}, UserID: AdminUser, OrganizationID: CareHome1, Role: entity.RoleAdmin},
		{Base: entity.Base{ID: "member2"}, UserID: User1, OrganizationID: CareHome1, Role: entity.RoleCarer},
		{Base: entity.Base{ID: "member3"}, UserID: User2, OrganizationID: CareHome1, Role: entity.RoleCarer},
		{Base: entity.Base{ID: "member4"}, UserID: AdminUser, OrganizationID: Agency1, Role: entity.RoleAdmin},
		{Base: entity.Base{ID: "member5"}, UserID: User1, OrganizationID: Agency1, Role: entity.RoleCarer},
	}
	for i := range members {
		if err := memberRepo.Create(ctx, &members[i]); err != nil {
			panic(err)
		}
	}
}

func insertDeviceTokens(ctx context.Context) {
	deviceTokenRepo := repository.NewDeviceTokenRepository()

	tokens := []entity.DeviceToken{
		{
			Base:             entity.Base{ID: "device1"},
			UserID:           User1,
			DeviceIdentifier: "user1-phone",
			DeviceType:       "ios",
			Token:            "ExponentPushToken[user1]",
		},
		{
			Base:             entity.Base{ID: "device2"},
			UserID:           AdminUser,
			DeviceIdentifier: "admin1-phone",
			DeviceType:       "android",
			Token:            "ExponentPushToken[admin1]",
		},
	}
	for i := range tokens {
		if err := deviceTokenRepo.Upsert(ctx, &tokens[i]); err != nil {
			panic(err)
		}
	}
}

// MockContextWithFixture is MockContext plus the fixture data.
func MockContextWithFixture() context.Context {
	ctx := MockContext()
	CreateFixture(ctx)
	return ctx
}
