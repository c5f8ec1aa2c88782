package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendEmailRejectsBadPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")

	err := SendEmail("awa@coop.sn", "Reminder", "<p>hello</p>")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SMTP_PORT")
}
