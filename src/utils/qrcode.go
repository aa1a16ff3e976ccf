package utils

import (
	"encoding/json"
	"time"

	"boletera/src/models"

	"github.com/yeqown/go-qrcode"
)

// TicketQRPayload is what actually goes inside the QR image. The scanner
// app only forwards the code; the rest is informational.
type TicketQRPayload struct {
	TicketID  uint      `json:"boleto_id"`
	EventID   uint      `json:"evento_id"`
	BuyerID   uint      `json:"usuario_id"`
	Code      string    `json:"codigo"`
	Timestamp time.Time `json:"timestamp"`
}

func BuildTicketQRPayload(t *models.Ticket) TicketQRPayload {
	return TicketQRPayload{
		TicketID:  t.ID,
		EventID:   t.EventID,
		BuyerID:   t.BuyerID,
		Code:      t.Code,
		Timestamp: time.Now(),
	}
}

// SaveTicketQR encrypts the payload with the API's QR secret and writes the
// QR image to filepath. Encoding is presentation only; the admission
// decision never parses an image.
func SaveTicketQR(key []byte, t *models.Ticket, filepath string) error {
	payload := BuildTicketQRPayload(t)
	raw, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	message, err := EncryptMessage(key, string(raw))
	if err != nil {
		return err
	}
	qrc, err := qrcode.New(message)
	if err != nil {
		return err
	}
	return qrc.Save(filepath)
}
