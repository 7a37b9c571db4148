package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventReceived  = "received"
	EventProcessed = "processed"
	EventIgnored   = "ignored"
	EventFailed    = "failed"
)

// GatewayEventModel logs every gateway callback, one row per hit, for debugging and replay.
type GatewayEventModel struct {
	GatewayEventID       uuid.UUID      `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`
	GatewayEventProvider string         `gorm:"column:gateway_event_provider;type:varchar(20);not null" json:"gateway_event_provider"`
	GatewayEventType     string         `gorm:"column:gateway_event_type;type:varchar(20);not null" json:"gateway_event_type"` // success|ipn|fail|cancel|notification
	GatewayEventTranID   string         `gorm:"column:gateway_event_tran_id;type:varchar(64);index" json:"gateway_event_tran_id"`
	GatewayEventPayload  datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`
	GatewayEventStatus   string         `gorm:"column:gateway_event_status;type:varchar(20);not null" json:"gateway_event_status"`
	GatewayEventError    *string        `gorm:"column:gateway_event_error" json:"gateway_event_error"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at"`
}

func (GatewayEventModel) TableName() string {
	return "payment_gateway_events"
}
