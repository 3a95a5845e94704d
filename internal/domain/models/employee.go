// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is a worker record. PhotoURL and AadharPhotoURL point into the
// image store; deleting an employee cascades to attendance records and
// removes both images.
type Employee struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Contact        string             `bson:"contact" json:"contact"`
	PhotoURL       string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	AadharPhotoURL string             `bson:"aadhar_photo_url,omitempty" json:"aadhar_photo_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ImageURLs returns the non-empty image URLs attached to the employee.
func (e Employee) ImageURLs() []string {
	urls := make([]string, 0, 2)
	if e.PhotoURL != "" {
		urls = append(urls, e.PhotoURL)
	}
	if e.AadharPhotoURL != "" {
		urls = append(urls, e.AadharPhotoURL)
	}
	return urls
}
