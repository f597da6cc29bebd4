package models

import "gorm.io/gorm"

// Student rows are only ever created in the same transaction as their
// owning User row.
type Student struct {
	gorm.Model
	UserID        uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	StudentNumber string `gorm:"unique;not null;size:30" json:"student_number"`
}

type Employee struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	EmployeeNumber string `gorm:"unique;not null;size:30" json:"employee_number"`
}
