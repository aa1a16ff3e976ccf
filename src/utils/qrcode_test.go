package utils

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"boletera/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTicketQRPayload(t *testing.T) {
	ticket := models.Ticket{
		ID:      7,
		EventID: 3,
		BuyerID: 11,
		Code:    GenerateAdmissionCode(),
	}
	payload := BuildTicketQRPayload(&ticket)
	assert.Equal(t, ticket.ID, payload.TicketID)
	assert.Equal(t, ticket.EventID, payload.EventID)
	assert.Equal(t, ticket.BuyerID, payload.BuyerID)
	assert.Equal(t, ticket.Code, payload.Code)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestTicketQRPayloadSurvivesEncryption(t *testing.T) {
	key := testKey(t)
	ticket := models.Ticket{ID: 7, EventID: 3, BuyerID: 11, Code: GenerateAdmissionCode()}

	raw, err := json.Marshal(BuildTicketQRPayload(&ticket))
	require.NoError(t, err)
	encrypted, err := EncryptMessage(key, string(raw))
	require.NoError(t, err)
	decrypted, err := DecryptMessage(key, encrypted)
	require.NoError(t, err)

	var payload TicketQRPayload
	require.NoError(t, json.Unmarshal([]byte(*decrypted), &payload))
	assert.Equal(t, ticket.Code, payload.Code)
	assert.Equal(t, ticket.ID, payload.TicketID)
}

func TestSaveTicketQR(t *testing.T) {
	key := testKey(t)
	ticket := models.Ticket{ID: 7, EventID: 3, BuyerID: 11, Code: GenerateAdmissionCode()}

	filepath := path.Join(t.TempDir(), "boleto_7.jpeg")
	require.NoError(t, SaveTicketQR(key, &ticket, filepath))

	info, err := os.Stat(filepath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
