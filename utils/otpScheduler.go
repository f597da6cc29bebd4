package utils

import (
	"log"
	"time"

	"campus/services"

	"github.com/robfig/cron/v3"
)

// InitializeOtpSweeper schedules the periodic expired-OTP sweep. The sweep
// is idempotent, so overlapping or repeated runs are harmless. Stopping the
// returned cron is all that is needed to cancel it.
func InitializeOtpSweeper(spec string, ledger *services.OtpLedger) *cron.Cron {
	log.Println("[OTP-SWEEPER] Initializing expired OTP sweeper...")

	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		removed, err := ledger.SweepExpired(time.Now())
		if err != nil {
			log.Printf("[OTP-SWEEPER] Error sweeping expired OTPs: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("[OTP-SWEEPER] Removed %d expired OTPs", removed)
		}
	})
	if err != nil {
		log.Printf("[OTP-SWEEPER] Invalid schedule %q: %v", spec, err)
		return c
	}

	c.Start()
	log.Printf("[OTP-SWEEPER] Sweeper started with schedule %q", spec)
	return c
}
