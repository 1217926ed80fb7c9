package mentor

import "mentorhub/internal/domain"

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	DurationMinutes int     `json:"durationInMinutes" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

type ProfileResponse struct {
	Mentor   profileUser      `json:"mentor"`
	Services []domain.Service `json:"services"`
}

type profileUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
}
