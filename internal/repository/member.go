package repository

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/pkg/xcontext"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	Get(ctx context.Context, userID, organizationID string) (*entity.Member, error)
	GetByRole(ctx context.Context, organizationID string, role entity.Role) ([]entity.Member, error)
	GetByOrganizationID(ctx context.Context, organizationID string) ([]entity.Member, error)
}

type memberRepository struct{}

func NewMemberRepository() *memberRepository {
	return &memberRepository{}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return xcontext.DB(ctx).Create(member).Error
}

func (r *memberRepository) Get(ctx context.Context, userID, organizationID string) (*entity.Member, error) {
	var result entity.Member
	err := xcontext.DB(ctx).
		Where("user_id=? AND organization_id=?", userID, organizationID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *memberRepository) GetByRole(
	ctx context.Context, organizationID string, role entity.Role,
) ([]entity.Member, error) {
	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("organization_id=? AND role=?", organizationID, role).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *memberRepository) GetByOrganizationID(
	ctx context.Context, organizationID string,
) ([]entity.Member, error) {
	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("organization_id=?", organizationID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
