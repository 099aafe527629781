package gamification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestProcessor(stores *fakeStores, clock *fakeClock) (*Processor, *VerificationCache) {
	cache := newTestCache(clock)
	proc := NewProcessor(cache, stores.processorStores(), nil, clock.Now)
	return proc, cache
}

func TestProcessRejectsMissingInput(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	proc, cache := newTestProcessor(newFakeStores(), clock)
	defer cache.Close()

	if res := proc.Process(context.Background(), 0, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1")); res.Success || res.Reason != ReasonMissingInput {
		t.Fatalf("zero employee: %+v", res)
	}
	if res := proc.Process(context.Background(), 1, "", ActionData{}, req("ua", "10.0.0.1")); res.Success || res.Reason != ReasonMissingInput {
		t.Fatalf("empty action: %+v", res)
	}
}

func TestProcessRejectsUnknownEmployee(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	proc, cache := newTestProcessor(newFakeStores(), clock)
	defer cache.Close()

	res := proc.Process(context.Background(), 42, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if res.Success || res.Reason != ReasonEmployeeNotFound {
		t.Fatalf("got %+v, want employee-not-found", res)
	}
}

func TestProcessCheckInRequiresTimeEntry(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	proc, cache := newTestProcessor(stores, clock)
	defer cache.Close()

	// No time entry at all.
	res := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if res.Success || res.Reason != ReasonNotVerified {
		t.Fatalf("no entry: %+v", res)
	}

	// Entry exists but the check-in field is empty.
	clock.Advance(2 * time.Minute)
	stores.entries[key2(uint(1), "2026-03-02")] = &TimeEntry{}
	res = proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua2", "10.0.0.2"))
	if res.Success || res.Reason != ReasonNotVerified {
		t.Fatalf("empty entry: %+v", res)
	}

	// Populated check-in time is the authoritative proof.
	clock.Advance(2 * time.Minute)
	checkIn := time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC)
	stores.entries[key2(uint(1), "2026-03-02")] = &TimeEntry{CheckIn: &checkIn}
	res = proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua3", "10.0.0.3"))
	if !res.Success {
		t.Fatalf("verified check_in rejected: %+v", res)
	}
	if res.PointsAwarded != 10 {
		t.Fatalf("points = %d, want 10", res.PointsAwarded)
	}
	if len(stores.logs) != 1 {
		t.Fatalf("log rows = %d, want 1", len(stores.logs))
	}
}

func TestProcessAwardsOncePerDay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	checkIn := clock.Now()
	stores.entries[key2(uint(1), "2026-03-02")] = &TimeEntry{CheckIn: &checkIn}
	proc, cache := newTestProcessor(stores, clock)
	defer cache.Close()

	first := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if !first.Success || first.PointsAwarded != 10 {
		t.Fatalf("first call: %+v", first)
	}

	clock.Advance(5 * time.Minute)
	second := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua2", "10.0.0.2"))
	if second.Success || second.Reason != ReasonAlreadyToday {
		t.Fatalf("second call: %+v", second)
	}

	if len(stores.logs) != 1 {
		t.Fatalf("log rows = %d, want exactly 1", len(stores.logs))
	}
	if stores.points[1].TotalPoints != 10 {
		t.Fatalf("total = %d, want 10", stores.points[1].TotalPoints)
	}
}

func TestProcessDuplicateCaughtWhenCacheReset(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	checkIn := clock.Now()
	stores.entries[key2(uint(1), "2026-03-02")] = &TimeEntry{CheckIn: &checkIn}

	proc, cache := newTestProcessor(stores, clock)
	if res := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1")); !res.Success {
		t.Fatalf("first call: %+v", res)
	}
	cache.Close()

	// A fresh cache simulates another tab or a process restart; the durable
	// log still blocks the double award.
	clock.Advance(10 * time.Minute)
	proc2, cache2 := newTestProcessor(stores, clock)
	defer cache2.Close()
	res := proc2.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if res.Success || res.Reason != ReasonAlreadyToday {
		t.Fatalf("bypass call: %+v", res)
	}
	if len(stores.logs) != 1 {
		t.Fatalf("log rows = %d, want 1", len(stores.logs))
	}
}

func TestProcessMessageSentVerifiesAuthor(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	stores.employees[2] = true
	stores.messages[100] = 2 // authored by someone else
	proc, cache := newTestProcessor(stores, clock)
	defer cache.Close()

	res := proc.Process(context.Background(), 1, ActionMessageSent, ActionData{MessageID: 100}, req("ua", "10.0.0.1"))
	if res.Success || res.Reason != ReasonNotVerified {
		t.Fatalf("foreign message: %+v", res)
	}

	clock.Advance(2 * time.Minute)
	stores.messages[101] = 1
	res = proc.Process(context.Background(), 1, ActionMessageSent, ActionData{MessageID: 101}, req("ua2", "10.0.0.2"))
	if !res.Success || res.PointsAwarded != 2 {
		t.Fatalf("own message: %+v", res)
	}

	// Missing reference id can never verify.
	clock.Advance(2 * time.Minute)
	res = proc.Process(context.Background(), 2, ActionMessageSent, ActionData{}, req("ua3", "10.0.0.3"))
	if res.Success || res.Reason != ReasonNotVerified {
		t.Fatalf("missing id: %+v", res)
	}
}

func TestProcessStoreFailureIsAbsorbed(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	stores.failWith = errors.New("connection refused")
	proc, cache := newTestProcessor(stores, clock)
	defer cache.Close()

	res := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if res.Success || res.Reason != ReasonInternal {
		t.Fatalf("got %+v, want internal reason", res)
	}
}

func TestProcessLevelRecomputedFromTotal(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	stores := newFakeStores()
	stores.employees[1] = true
	stores.points[1] = &PointsSnapshot{TotalPoints: 95, Level: 1}
	checkIn := clock.Now()
	stores.entries[key2(uint(1), "2026-03-02")] = &TimeEntry{CheckIn: &checkIn}
	proc, cache := newTestProcessor(stores, clock)
	defer cache.Close()

	res := proc.Process(context.Background(), 1, ActionCheckIn, ActionData{}, req("ua", "10.0.0.1"))
	if !res.Success {
		t.Fatalf("award failed: %+v", res)
	}
	if res.TotalPoints != 105 || res.Level != 2 {
		t.Fatalf("total=%d level=%d, want 105/2", res.TotalPoints, res.Level)
	}
}
