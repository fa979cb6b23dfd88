package notify

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправляет e-mail уведомления о событиях бронирования через
// SendGrid. Отправка асинхронная: события не задерживают основной поток,
// сбой доставки только логируется.
type Client struct {
	sender    *sendgrid.Client
	fromName  string
	fromEmail string
	opsEmail  string
	log       Logger
}

// NewClient создает новый клиент уведомлений
func NewClient(apiKey, fromName, fromEmail, opsEmail string, log Logger) *Client {
	return &Client{
		sender:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		opsEmail:  opsEmail,
		log:       log,
	}
}

// BookingCreated уведомляет о новом бронировании
func (c *Client) BookingCreated(b *domain.Booking) {
	subject := fmt.Sprintf("Новое бронирование %s", b.Code)
	body := fmt.Sprintf(
		"Бронирование %s: пакет %d, клиент %d, с %s по %s, сумма %.2f. Ожидает депозит.",
		b.Code, b.PackageID, b.CustomerID,
		b.PickupDate.Format(domain.DateFormat), b.ReturnDate.Format(domain.DateFormat),
		b.TotalPrice,
	)
	go c.send(subject, body)
}

// BookingConfirmed уведомляет о подтверждении бронирования после
// проверки депозита
func (c *Client) BookingConfirmed(b *domain.Booking) {
	subject := fmt.Sprintf("Бронирование %s подтверждено", b.Code)
	body := fmt.Sprintf(
		"Депозит по бронированию %s проверен, бронирование подтверждено. Выдача %s в %s, %s.",
		b.Code, b.PickupDate.Format(domain.DateFormat), b.PickupTime.String(), b.Location,
	)
	go c.send(subject, body)
}

// BookingCancelled уведомляет об отмене бронирования
func (c *Client) BookingCancelled(b *domain.Booking, penaltyRate float64) {
	subject := fmt.Sprintf("Бронирование %s отменено", b.Code)
	body := fmt.Sprintf(
		"Бронирование %s отменено. Ставка штрафа %.0f%%, сумма бронирования %.2f.",
		b.Code, penaltyRate*100, b.TotalPrice,
	)
	go c.send(subject, body)
}

func (c *Client) send(subject, body string) {
	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail("", c.opsEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := c.sender.Send(message)
	if err != nil {
		c.log.Error("notify: failed to send %q: %v", subject, err)
		return
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Error("notify: %v: %q status=%d body=%s", ErrSendFailed, subject, resp.StatusCode, resp.Body)
		return
	}

	c.log.Info("notify: sent %q", subject)
}
