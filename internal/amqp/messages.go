package amqp

import (
	"encoding/json"
	"time"
)

// CatalogReloadedKey is the routing key for CatalogReloadedMessage. The service binds
// no queue to it; subscribers declare and bind their own.
const CatalogReloadedKey = "catalog.reloaded"

// ReloadRequestMessage asks the service to re-read its bill source.
type ReloadRequestMessage struct {
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requested_by"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewReloadRequestMessage(reason, requestedBy string) *ReloadRequestMessage {
	return &ReloadRequestMessage{
		Reason:      reason,
		RequestedBy: requestedBy,
		Timestamp:   time.Now(),
	}
}

func (m *ReloadRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReloadRequestMessageFromJSON(data []byte) (*ReloadRequestMessage, error) {
	var msg ReloadRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CatalogReloadedMessage announces a new catalog snapshot.
type CatalogReloadedMessage struct {
	SnapshotID string    `json:"snapshot_id"`
	Source     string    `json:"source"`
	States     int       `json:"states"`
	Bills      int       `json:"bills"`
	Dropped    int       `json:"dropped"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *CatalogReloadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CatalogReloadedMessageFromJSON(data []byte) (*CatalogReloadedMessage, error) {
	var msg CatalogReloadedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
