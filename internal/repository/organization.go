package repository

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/pkg/xcontext"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
}

type organizationRepository struct{}

func NewOrganizationRepository() *organizationRepository {
	return &organizationRepository{}
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	return xcontext.DB(ctx).Create(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	var result entity.Organization
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
