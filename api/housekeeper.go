/*
housekeeper.go - Periodic housekeeping sweep

PURPOSE:
  Runs the engine's housekeeping sweep on a schedule so room status
  tracks the passage of time even when no request arrives: stale active
  reservations expire and their rooms are released.

DESIGN:
  - Background goroutine with a configurable check interval
  - The sweep is idempotent, so overlapping triggers are harmless
  - Warnings from malformed reservation dates are logged, never fatal

USAGE:
  hk := NewHousekeeper(engine)
  hk.Start()
  // ... later
  hk.Stop()

SEE ALSO:
  - booking/lifecycle.go: Sweep semantics
  - handlers.go: TriggerSweep endpoint (manual run)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/lodging-engine/booking"
)

// Housekeeper periodically reconciles room status with real time.
type Housekeeper struct {
	Engine        *booking.Engine
	CheckInterval time.Duration
	Enabled       bool

	ticker  *time.Ticker
	stop    chan bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewHousekeeper creates a housekeeper with an hourly interval.
func NewHousekeeper(engine *booking.Engine) *Housekeeper {
	return &Housekeeper{
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the periodic sweep.
func (hk *Housekeeper) Start() {
	hk.mu.Lock()
	defer hk.mu.Unlock()

	if !hk.Enabled {
		log.Println("[Housekeeper] Disabled, not starting")
		return
	}
	if hk.running {
		return
	}

	hk.ticker = time.NewTicker(hk.CheckInterval)
	hk.running = true
	hk.wg.Add(1)

	// The goroutine owns the ticker; Stop only ever calls ticker.Stop.
	go hk.run(hk.ticker)

	log.Printf("[Housekeeper] Started with check interval: %v", hk.CheckInterval)
}

// Stop stops the housekeeper and waits for the sweep goroutine to exit.
// Safe to call more than once.
func (hk *Housekeeper) Stop() {
	hk.mu.Lock()
	defer hk.mu.Unlock()

	if !hk.running {
		return
	}
	hk.running = false

	hk.ticker.Stop()
	close(hk.stop)
	hk.wg.Wait()
	log.Println("[Housekeeper] Stopped")
}

func (hk *Housekeeper) run(ticker *time.Ticker) {
	defer hk.wg.Done()

	// Run immediately on start
	hk.sweep()

	for {
		select {
		case <-ticker.C:
			hk.sweep()
		case <-hk.stop:
			return
		}
	}
}

func (hk *Housekeeper) sweep() {
	ctx := context.Background()
	today := booking.Today()

	report, err := hk.Engine.Sweep(ctx, today)
	if err != nil {
		log.Printf("[Housekeeper] Sweep failed: %v", err)
		return
	}

	for _, warning := range report.Warnings {
		log.Printf("[Housekeeper] Warning: %s", warning)
	}
	if report.Changed() {
		log.Printf("[Housekeeper] Released %d room(s), expired %d reservation(s)",
			len(report.ReleasedRooms), len(report.ExpiredReservations))
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (hk *Housekeeper) RunNow() {
	hk.sweep()
}
