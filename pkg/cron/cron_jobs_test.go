package cron

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReminders(n int) []shareReminder {
	reminders := make([]shareReminder, 0, n)
	for i := 0; i < n; i++ {
		reminders = append(reminders, shareReminder{
			Email:            fmt.Sprintf("member%d@coop.sn", i),
			Name:             fmt.Sprintf("Member %d", i),
			DistributionCode: "DIST-2024-001",
			Outstanding:      150.0,
			ApprovedAt:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return reminders
}

func TestSendShareReminders(t *testing.T) {
	t.Run("counts every failure", func(t *testing.T) {
		failed := sendShareReminders(makeReminders(5), func(shareReminder) error {
			return errors.New("smtp unreachable")
		})
		assert.Equal(t, 5, failed)
	})

	t.Run("drains when more sends fail than any buffer", func(t *testing.T) {
		// An SMTP outage fails every send at once. The run must still
		// finish instead of stranding sender goroutines.
		done := make(chan int, 1)
		go func() {
			done <- sendShareReminders(makeReminders(25), func(shareReminder) error {
				return errors.New("smtp unreachable")
			})
		}()

		select {
		case failed := <-done:
			assert.Equal(t, 25, failed)
		case <-time.After(5 * time.Second):
			t.Fatal("reminder fan-out never finished")
		}
	})

	t.Run("mixed successes and failures", func(t *testing.T) {
		var mu sync.Mutex
		sent := []string{}

		failed := sendShareReminders(makeReminders(6), func(rem shareReminder) error {
			if strings.HasPrefix(rem.Email, "member0") || strings.HasPrefix(rem.Email, "member3") {
				return errors.New("mailbox full")
			}
			mu.Lock()
			sent = append(sent, rem.Email)
			mu.Unlock()
			return nil
		})

		assert.Equal(t, 2, failed)
		assert.Len(t, sent, 4)
	})

	t.Run("no reminders", func(t *testing.T) {
		require.Zero(t, sendShareReminders(nil, func(shareReminder) error {
			t.Fatal("send called with no reminders")
			return nil
		}))
	})
}
