package models

import "gorm.io/gorm"

const (
	StatusKindStudent  = "student"
	StatusKindEmployee = "employee"

	// Default status assigned to newly registered students.
	StatusEnrolled = "Enrolled"
)

type Status struct {
	gorm.Model
	Name string `gorm:"size:50;not null" json:"name"`
	Kind string `gorm:"size:20;not null;index" json:"kind"`
}
