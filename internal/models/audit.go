package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEntry records one control-plane action for the admin trail.
type AuditEntry struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	LoginID   string                 `json:"login_id" bson:"login_id"`
	Action    string                 `json:"action" bson:"action"`
	Detail    string                 `json:"detail" bson:"detail"`
	IP        string                 `json:"ip" bson:"ip"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp" bson:"timestamp"`
}
