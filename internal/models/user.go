package models

import "github.com/google/uuid"

type UserProfile struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	Address              string  `json:"address"`
	TotalAppointments    int     `json:"total_appointments"`
	LoyaltyPoints        int     `json:"loyalty_points"`
	MembershipLevel      string  `json:"membership_level"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	ProfileImageName     *string `json:"profile_image_name,omitempty"`
}

// DefaultUserProfile is used when nothing usable is stored on the device.
func DefaultUserProfile() UserProfile {
	return UserProfile{
		ID:                   uuid.NewString(),
		Name:                 "עומר זנו",
		Phone:                "050-1234567",
		Email:                "omer@example.com",
		Address:              "באר שבע",
		TotalAppointments:    12,
		LoyaltyPoints:        650,
		MembershipLevel:      "VIP",
		NotificationsEnabled: true,
	}
}
