package utils

import (
	"log"
	"time"

	"github.com/flowhr/flowhr/config"
	"github.com/flowhr/flowhr/models"
)

// StartNotificationCleaner launches a background goroutine that periodically
// deletes read notifications older than the retention window. It is
// best-effort and logs failures.
func StartNotificationCleaner(interval, retention time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			cutoff := time.Now().Add(-retention)
			res := db.Where("`read` = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
			if res.Error != nil {
				log.Printf("notification cleaner delete failed: %v", res.Error)
				continue
			}
			if res.RowsAffected > 0 && Sugar != nil {
				Sugar.Debugf("notification cleaner removed %d rows", res.RowsAffected)
			}
		}
	}()
}
