package main

import (
	"fmt"

	"hotel-rooms/config"
	"hotel-rooms/events"
	"hotel-rooms/logger"
	"hotel-rooms/services"
)

// app holds the wired services for one process.
type app struct {
	cfg       config.App
	rooms     *services.RoomService
	allocator *services.Allocator
	journal   services.BookingJournal
	events    events.Publisher
	close     func()
}

func newApp(cfg config.App) (*app, error) {
	var (
		store   services.RoomStore
		journal services.BookingJournal
		closers []func()
	)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		store = services.NewMemoryRoomStore()
		journal = services.NewMemoryBookingJournal()
		logger.L.Warn("using in-memory room store; state is lost on exit")

	default:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connect failed: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		store = services.NewGormRoomStore(db)
		journal = services.NewGormBookingJournal(db)
	}

	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// events are optional; booking must not depend on the broker
			logger.L.Warn("event publishing disabled", "err", err)
		} else {
			pub = p
			closers = append(closers, func() { _ = p.Close() })
		}
	}

	alloc := services.NewAllocator(store, services.AllocatorConfig{
		MaxRoomsPerGuest: cfg.MaxRoomsPerGuest,
		CeilingQuota:     cfg.QuotaCheck == config.QuotaCeiling,
		WriteTimeout:     cfg.StoreWriteTimeout,
		BookTimeout:      cfg.BookTimeout,
		RandomizeCount:   cfg.RandomizeCount,
	})
	alloc.Journal = journal
	alloc.Events = pub

	return &app{
		cfg:       cfg,
		rooms:     services.NewRoomService(store),
		allocator: alloc,
		journal:   journal,
		events:    pub,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}
