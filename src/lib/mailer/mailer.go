package mailer

import (
	"fmt"
	"log"
	"os"

	"boletera/src/lib"
)

// PurchaseReceipt carries the fields the confirmation email needs. It is
// decoded from the boletos-comprados topic payload.
type PurchaseReceipt struct {
	BuyerEmail string   `json:"correo_comprador"`
	BuyerName  string   `json:"nombre_comprador"`
	EventName  string   `json:"evento"`
	Category   string   `json:"categoria"`
	Quantity   int      `json:"cantidad"`
	Total      string   `json:"total"`
	Codes      []string `json:"codigos"`
}

func SendPurchaseConfirmation(r *PurchaseReceipt) error {
	if r.BuyerEmail == "" {
		return fmt.Errorf("receipt has no recipient address")
	}
	body := fmt.Sprintf(
		"Hola %s,\n\nTu compra para %s fue confirmada.\nCategoria: %s\nCantidad: %d\nTotal: %s\n\nCodigos de admision:\n",
		r.BuyerName, r.EventName, r.Category, r.Quantity, r.Total,
	)
	for _, code := range r.Codes {
		body += fmt.Sprintf("  %s\n", code)
	}
	body += "\nPresenta el codigo QR de cada boleto en la entrada.\n"
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: os.Getenv("MAIL_FROM_NAME"),
		To:       []string{r.BuyerEmail},
		Subject:  fmt.Sprintf("Confirmacion de compra: %s", r.EventName),
		Body:     body,
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("Failed to send confirmation to %s: %s\n", r.BuyerEmail, err.Error())
		return err
	}
	return nil
}
