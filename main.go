package main

import (
	"time"

	"github.com/flowhr/flowhr/config"
	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/routes"
	"github.com/flowhr/flowhr/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Employee{},
		&models.TimeEntry{},
		&models.Message{},
		&models.Announcement{},
		&models.AnnouncementRead{},
		&models.Document{},
		&models.DocumentView{},
		&models.Task{},
		&models.ActionLog{},
		&models.EmployeePoints{},
		&models.Badge{},
		&models.Notification{},
	)

	cache := gamification.NewVerificationCache(gamification.CacheOptions{
		Cooldown:          time.Duration(cfg.ActionCooldownSec) * time.Second,
		PenaltyLimit:      cfg.PenaltyBlacklistAfter,
		BlacklistFor:      time.Duration(cfg.BlacklistMinutes) * time.Minute,
		FingerprintWindow: time.Duration(cfg.FingerprintWindowSec) * time.Second,
		CleanupInterval:   time.Duration(cfg.CacheCleanupMinutes) * time.Minute,
	})
	defer cache.Close()

	store := gamification.NewGormStore(db, nil)
	processor := gamification.NewProcessor(cache, gamification.ProcessorStores{
		Employees:     store,
		TimeClock:     store,
		Messages:      store,
		Announcements: store,
		Documents:     store,
		Tasks:         store,
		Actions:       store,
	}, utils.Sugar, nil)
	aggregator := gamification.NewAggregator(store, store, store, store, utils.Sugar, nil)

	r := routes.SetupRouter(db, routes.Engine{
		Cache:      cache,
		Processor:  processor,
		Aggregator: aggregator,
		Store:      store,
	})

	// Prune read notifications older than 30 days (best-effort)
	utils.StartNotificationCleaner(time.Hour, 30*24*time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
