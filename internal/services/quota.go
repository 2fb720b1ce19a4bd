package services

import (
	"sync"
	"time"
)

// QuotaState is the daily admission counter. It lives in memory only and
// starts from zero on every process start.
type QuotaState struct {
	mu    sync.Mutex
	count int
	day   string
}

// CheckAndReset resets the counter when now falls on a different calendar
// day than the one recorded, then admits if the counter is below limit.
func (q *QuotaState) CheckAndReset(now time.Time, limit int) bool {
	today := now.Format(time.DateOnly)

	q.mu.Lock()
	defer q.mu.Unlock()

	if today != q.day {
		q.count = 0
		q.day = today
	}

	if q.count >= limit {
		return false
	}

	q.count++
	return true
}

func (q *QuotaState) Snapshot() (count int, day string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count, q.day
}

type AdmissionController struct {
	state *QuotaState
	limit int
	now   func() time.Time
}

// NewAdmissionController creates a controller with a fixed daily ceiling.
// A nil clock uses the local wall clock.
func NewAdmissionController(state *QuotaState, limit int, now func() time.Time) *AdmissionController {
	if state == nil {
		state = &QuotaState{}
	}
	if now == nil {
		now = time.Now
	}
	return &AdmissionController{
		state: state,
		limit: limit,
		now:   now,
	}
}

func (a *AdmissionController) TryAdmit() bool {
	return a.state.CheckAndReset(a.now(), a.limit)
}

func (a *AdmissionController) Limit() int {
	return a.limit
}

// Usage reports the admissions counted for the current day.
func (a *AdmissionController) Usage() (used int, day string) {
	count, recorded := a.state.Snapshot()
	today := a.now().Format(time.DateOnly)
	if recorded != today {
		return 0, today
	}
	return count, recorded
}
