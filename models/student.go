package models

import "time"

type CreateStudentRequest struct {
	Name       string `json:"name" binding:"required"`
	RollNumber string `json:"roll_number" binding:"required"`
}

type Student struct {
	ID         string    `json:"id"`
	AdminID    int       `json:"admin_id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
	Registered bool      `json:"face_registered"`
	CreatedAt  time.Time `json:"created_at"`
}
