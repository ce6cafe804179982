package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Asset represents a piece of equipment tracked for preventive maintenance.
type Asset struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Model       string             `json:"model" bson:"model"`
	Serial      string             `json:"serial" bson:"serial"`
	Category    string             `json:"category" bson:"category"` // "pump", "compressor", "conveyor", "hvac", "other"
	Hours       int64              `json:"hours" bson:"hours"`       // cumulative usage hours
	Cycles      int64              `json:"cycles" bson:"cycles"`     // cumulative usage cycles
	Environment string             `json:"environment" bson:"environment"` // "indoor", "outdoor", "coastal", "dusty", ...
	Company     string             `json:"company" bson:"company"`
	Notes       string             `json:"notes" bson:"notes"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// UsageReading is a single usage-meter report for an asset, keyed by serial.
type UsageReading struct {
	Serial    string    `json:"serial" bson:"serial"`
	Hours     int64     `json:"hours" bson:"hours"`
	Cycles    int64     `json:"cycles" bson:"cycles"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
