package event

import "time"

const (
	TopicDevice      = "catalogue.device"
	TopicDeviceModel = "catalogue.device-model"
)

const (
	DeviceCreated       = "Catalogue.Device.Created"
	DeviceUpdated       = "Catalogue.Device.Updated"
	DeviceDeleted       = "Catalogue.Device.Deleted"
	DeviceStatusChanged = "Catalogue.Device.StatusChanged"

	DeviceModelCreated = "Catalogue.DeviceModel.Created"
	DeviceModelUpdated = "Catalogue.DeviceModel.Updated"
	DeviceModelDeleted = "Catalogue.DeviceModel.Deleted"
)

// StatusChangedData is the payload of DeviceStatusChanged.
type StatusChangedData struct {
	DeviceID       string    `json:"deviceId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

type DeviceData struct {
	DeviceID     string `json:"deviceId"`
	ModelID      string `json:"modelId"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Status       string `json:"status"`
}

type DeviceDeletedData struct {
	DeviceID string `json:"deviceId"`
}

type DeviceModelData struct {
	ModelID     string `json:"modelId"`
	Name        string `json:"name"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	LoanDays    int    `json:"loanDays,omitempty"`
	Description string `json:"description,omitempty"`
}

type DeviceModelDeletedData struct {
	ModelID string `json:"modelId"`
}
