package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Company represents an organization whose assets are planned.
type Company struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Industry  string             `json:"industry" bson:"industry"`
	Contact   string             `json:"contact" bson:"contact"` // contact email
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
