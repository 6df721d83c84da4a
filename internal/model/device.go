package model

type RegisterDeviceRequest struct {
	Token            string `json:"token"`
	DeviceType       string `json:"device_type"`
	DeviceIdentifier string `json:"device_identifier"`
}

type RegisterDeviceResponse struct{}

type RemoveDeviceRequest struct {
	DeviceIdentifier string `json:"device_identifier"`
}

type RemoveDeviceResponse struct{}
