package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coopfarm/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs hourly — close out bookings whose rental period has ended
	_, err := c.AddFunc("0 * * * *", func() {
		err := CompleteElapsedBookings(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to complete elapsed bookings: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule booking completion job: %v", err)
	}

	// Runs daily at midnight — remind members with unpaid distribution shares
	_, err = c.AddFunc("0 0 * * *", func() {
		err := SendOutstandingShareReminders(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send share reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule share reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (booking completion hourly, share reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Mark elapsed confirmed/in-use bookings as completed
// -------------------------------------------------------------
func CompleteElapsedBookings(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE equipment_bookings
		SET status = 'completed'
		WHERE end_date < ? AND status IN ('confirmed', 'in-use')
	`, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Marked %d elapsed bookings as completed", rowsAffected)
	}
	return nil
}

// -------------------------------------------------------------
// Send daily reminders for unpaid distribution shares
// -------------------------------------------------------------
func SendOutstandingShareReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT
			m.email,
			m.name,
			d.distribution_code,
			d.approval_date,
			SUM(dm.amount_due - dm.amount_paid) AS outstanding
		FROM distribution_members dm
		JOIN profit_distributions d ON d.id = dm.distribution_id
		JOIN members m ON m.id = dm.member_id
		WHERE dm.status != 'completed'
		  AND d.status IN ('approved', 'distributed')
		GROUP BY dm.member_id, d.id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var reminders []shareReminder
	for rows.Next() {
		var (
			rem             shareReminder
			approvalDateRaw sql.NullString
		)

		if err := rows.Scan(&rem.Email, &rem.Name, &rem.DistributionCode, &approvalDateRaw, &rem.Outstanding); err != nil {
			utils.Logger.Errorf("Failed to scan share row: %v", err)
			continue
		}

		if approvalDateRaw.Valid {
			rem.ApprovedAt, err = time.Parse("2006-01-02 15:04:05", approvalDateRaw.String)
			if err != nil {
				utils.Logger.Errorf("Failed to parse approval_date for %s: %v", rem.Email, err)
				continue
			}
		} else {
			rem.ApprovedAt = time.Now()
		}

		reminders = append(reminders, rem)
	}

	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating share rows: %v", err)
		return err
	}

	if failed := sendShareReminders(reminders, func(rem shareReminder) error {
		return utils.SendOutstandingShareEmail(rem.Email, rem.Name,
			fmt.Sprintf("%.2f", rem.Outstanding), rem.DistributionCode, rem.ApprovedAt)
	}); failed > 0 {
		utils.Logger.Errorf("%d share reminders failed to send", failed)
	}

	utils.Logger.Info("Finished sending outstanding share reminders.")
	return nil
}

type shareReminder struct {
	Email            string
	Name             string
	DistributionCode string
	Outstanding      float64
	ApprovedAt       time.Time
}

// sendShareReminders fans the reminders out concurrently and returns how
// many failed to send. Failures are logged inside each goroutine so the
// fan-out always drains, no matter how many sends fail.
func sendShareReminders(reminders []shareReminder, send func(shareReminder) error) int {
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, rem := range reminders {
		wg.Add(1)
		go func(rem shareReminder) {
			defer wg.Done()

			if err := send(rem); err != nil {
				failed.Add(1)
				utils.Logger.Errorf("failed to send share reminder to %s: %v", rem.Email, err)
				return
			}

			utils.Logger.Infof("Sent share reminder to %s (%s) for '%s'", rem.Name, rem.Email, rem.DistributionCode)
		}(rem)
	}

	wg.Wait()
	return int(failed.Load())
}
