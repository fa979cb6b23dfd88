package get_availability

import (
	getAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/get_availability"
)

// DayAvailabilityResponse занятость одного дня в HTTP ответе
type DayAvailabilityResponse struct {
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	PackageID     int64                     `json:"packageId"`
	PackageActive bool                      `json:"packageActive"`
	Capacity      int                       `json:"capacity"`
	Available     bool                      `json:"available"`
	Days          []DayAvailabilityResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]DayAvailabilityResponse, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayAvailabilityResponse{
			Date:      d.Date,
			Used:      d.Used,
			Remaining: d.Remaining,
		})
	}

	return &AvailabilityResponse{
		PackageID:     resp.PackageID,
		PackageActive: resp.PackageActive,
		Capacity:      resp.Capacity,
		Available:     resp.Available,
		Days:          days,
	}
}
