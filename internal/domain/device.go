package domain

import (
	"context"

	"github.com/carerota/backend/internal/entity"
	"github.com/carerota/backend/internal/model"
	"github.com/carerota/backend/internal/repository"
	"github.com/carerota/backend/pkg/errorx"
	"github.com/carerota/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type DeviceDomain interface {
	Register(context.Context, *model.RegisterDeviceRequest) (*model.RegisterDeviceResponse, error)
	Remove(context.Context, *model.RemoveDeviceRequest) (*model.RemoveDeviceResponse, error)
}

type deviceDomain struct {
	deviceTokenRepo repository.DeviceTokenRepository
}

func NewDeviceDomain(deviceTokenRepo repository.DeviceTokenRepository) *deviceDomain {
	return &deviceDomain{deviceTokenRepo: deviceTokenRepo}
}

func (d *deviceDomain) Register(
	ctx context.Context, req *model.RegisterDeviceRequest,
) (*model.RegisterDeviceResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.Token == "" || req.DeviceIdentifier == "" {
		return nil, errorx.New(errorx.BadRequest, "Require token and device_identifier")
	}

	err := d.deviceTokenRepo.Upsert(ctx, &entity.DeviceToken{
		Base:             entity.Base{ID: uuid.NewString()},
		UserID:           userID,
		Token:            req.Token,
		DeviceType:       req.DeviceType,
		DeviceIdentifier: req.DeviceIdentifier,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot register the device: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterDeviceResponse{}, nil
}

func (d *deviceDomain) Remove(
	ctx context.Context, req *model.RemoveDeviceRequest,
) (*model.RemoveDeviceResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.deviceTokenRepo.Delete(ctx, userID, req.DeviceIdentifier); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove the device: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveDeviceResponse{}, nil
}
