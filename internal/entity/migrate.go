package entity

import (
	"context"

	"github.com/carerota/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Organization{},
		&Member{},
		&DeviceToken{},
		&Notification{},
	)
}
