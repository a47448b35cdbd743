package events

import (
	"time"

	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
)

// StatsMonitor periodically pushes order counts per status to connected
// dashboards so they refresh without polling.
type StatsMonitor struct {
	DB       *gorm.DB
	Interval time.Duration
	stopChan chan struct{}
}

func NewStatsMonitor(db *gorm.DB) *StatsMonitor {
	return &StatsMonitor{
		DB:       db,
		Interval: 5 * time.Second,
		stopChan: make(chan struct{}),
	}
}

func (sm *StatsMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.pushStats()
			case <-sm.stopChan:
				return
			}
		}
	}()
}

func (sm *StatsMonitor) Stop() {
	close(sm.stopChan)
}

func (sm *StatsMonitor) pushStats() {
	counts := make(map[string]int64, len(lifecycle.Statuses))
	for _, status := range lifecycle.Statuses {
		var n int64
		sm.DB.Model(&models.Order{}).Where("status = ?", status.String()).Count(&n)
		counts[status.String()] = n
	}
	BroadcastDashboardUpdate(counts)
}
