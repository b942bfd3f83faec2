package surveys

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("survey not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Survey is a user's lifestyle questionnaire. One survey per user.
type Survey struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	AgeGroup  string    `json:"ageGroup"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Transport Transport `json:"transport"`
	Energy    Energy    `json:"energy"`
	Water     Water     `json:"water"`
	Fuel      Fuel      `json:"fuel"`
	Lifestyle Lifestyle `json:"lifestyle"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Transport struct {
	PrimaryMode       string   `json:"primaryMode"`
	OtherModes        []string `json:"otherModes"`
	WeeklyDistance    float64  `json:"weeklyDistance"`
	CarFuelType       string   `json:"carFuelType"`
	CarFuelEfficiency float64  `json:"carFuelEfficiency"`
	FlightTravel      float64  `json:"flightTravel"`
}

type Energy struct {
	Electricity   float64 `json:"electricity"`
	PrimarySource string  `json:"primarySource"`
	LEDLights     bool    `json:"ledLights"`
}

type Water struct {
	Usage float64 `json:"usage"`
}

type Fuel struct {
	GasUsage        float64 `json:"gasUsage"`
	CookingFuelType string  `json:"cookingFuelType"`
}

type Lifestyle struct {
	CompostRecycle bool `json:"compostRecycle"`
}

// Comparison is the public subset of a survey used to compare users.
type Comparison struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Transport Transport `json:"transport"`
}
