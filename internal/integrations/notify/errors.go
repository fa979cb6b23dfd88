package notify

import "errors"

var (
	// ErrSendFailed возвращается, когда SendGrid отклонил отправку письма
	ErrSendFailed = errors.New("notify client: failed to send email")
)
