package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	createBooking "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PackageID  int64   `json:"packageId"`
	PickupDate string  `json:"pickupDate"` // "2025-10-15"
	ReturnDate string  `json:"returnDate"`
	PickupTime string  `json:"pickupTime"` // "10:00"
	ReturnTime string  `json:"returnTime"`
	Location   string  `json:"location"`
	Notes      *string `json:"notes,omitempty"`
}

// PriceBreakdownResponse разбивка цены в HTTP ответе
type PriceBreakdownResponse struct {
	RentalDays              int     `json:"rentalDays"`
	BaseDay                 float64 `json:"baseDay"`
	Day2Surcharge           float64 `json:"day2Surcharge"`
	Day36Surcharge          float64 `json:"day36Surcharge"`
	Day7PlusSurcharge       float64 `json:"day7PlusSurcharge"`
	WeekendHolidaySurcharge float64 `json:"weekendHolidaySurcharge"`
	Subtotal                float64 `json:"subtotal"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64                  `json:"id"`
	Code       string                 `json:"code"`
	CustomerID int64                  `json:"customerId"`
	PackageID  int64                  `json:"packageId"`
	PickupDate string                 `json:"pickupDate"`
	ReturnDate string                 `json:"returnDate"`
	PickupTime string                 `json:"pickupTime"`
	ReturnTime string                 `json:"returnTime"`
	Location   string                 `json:"location"`
	Notes      *string                `json:"notes,omitempty"`
	Status     string                 `json:"status"`
	Breakdown  PriceBreakdownResponse `json:"breakdown"`
	TotalPrice float64                `json:"totalPrice"`
	DepositDue float64                `json:"depositDue"`
	CreatedAt  string                 `json:"createdAt"`
	UpdatedAt  string                 `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	pickupDate, err := time.Parse(domain.DateFormat, r.PickupDate)
	if err != nil {
		return nil, err
	}
	returnDate, err := time.Parse(domain.DateFormat, r.ReturnDate)
	if err != nil {
		return nil, err
	}

	pickupTime, err := types.NewTimeStringFromString(r.PickupTime)
	if err != nil {
		return nil, err
	}
	returnTime, err := types.NewTimeStringFromString(r.ReturnTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID: customerID,
		PackageID:  r.PackageID,
		PickupDate: pickupDate,
		ReturnDate: returnDate,
		PickupTime: pickupTime,
		ReturnTime: returnTime,
		Location:   r.Location,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		Code:       resp.Code,
		CustomerID: resp.CustomerID,
		PackageID:  resp.PackageID,
		PickupDate: resp.PickupDate.Format(domain.DateFormat),
		ReturnDate: resp.ReturnDate.Format(domain.DateFormat),
		PickupTime: resp.PickupTime.String(),
		ReturnTime: resp.ReturnTime.String(),
		Location:   resp.Location,
		Notes:      resp.Notes,
		Status:     resp.Status,
		Breakdown: PriceBreakdownResponse{
			RentalDays:              resp.Breakdown.RentalDays,
			BaseDay:                 resp.Breakdown.BaseDay,
			Day2Surcharge:           resp.Breakdown.Day2Surcharge,
			Day36Surcharge:          resp.Breakdown.Day36Surcharge,
			Day7PlusSurcharge:       resp.Breakdown.Day7PlusSurcharge,
			WeekendHolidaySurcharge: resp.Breakdown.WeekendHolidaySurcharge,
			Subtotal:                resp.Breakdown.Subtotal,
		},
		TotalPrice: resp.TotalPrice,
		DepositDue: resp.DepositDue,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
