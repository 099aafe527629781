package gamification

import (
	"testing"
	"time"
)

func newTestCache(clock *fakeClock) *VerificationCache {
	return NewVerificationCache(CacheOptions{
		Cooldown:          60 * time.Second,
		PenaltyLimit:      5,
		BlacklistFor:      10 * time.Minute,
		FingerprintWindow: 30 * time.Second,
		Now:               clock.Now,
	})
}

func req(ua, ip string) RequestContext {
	return RequestContext{UserAgent: ua, ClientIP: ip}
}

// accept runs a CanProcess that must succeed and confirms it, the way the
// processor does after a durable award.
func accept(t *testing.T, cache *VerificationCache, employeeID uint, action string, rc RequestContext) {
	t.Helper()
	if d := cache.CanProcess(employeeID, action, rc); !d.Allowed {
		t.Fatalf("action %q rejected: %s", action, d.Reason)
	}
	cache.Confirm(employeeID, action)
}

func TestCacheRejectsForbiddenActions(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	forbidden := []string{"page_load", "page_view", "click", "scroll", "focus", "blur", "navigation", "login", "logout", "connect", "session_start", "heartbeat"}
	for _, action := range forbidden {
		d := cache.CanProcess(1, action, req("ua", "10.0.0.1"))
		if d.Allowed {
			t.Errorf("action %q should never be allowed", action)
		}
		if d.Reason != ReasonForbiddenAction {
			t.Errorf("action %q reason = %q, want %q", action, d.Reason, ReasonForbiddenAction)
		}
		clock.Advance(2 * time.Minute) // rule out cooldown interference
	}
}

func TestCacheCooldown(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	accept(t, cache, 1, ActionCheckIn, req("ua", "10.0.0.1"))

	clock.Advance(59 * time.Second)
	if d := cache.CanProcess(1, ActionMessageSent, req("ua", "10.0.0.1")); d.Allowed || d.Reason != ReasonCooldown {
		t.Fatalf("expected cooldown rejection, got allowed=%v reason=%q", d.Allowed, d.Reason)
	}

	clock.Advance(2 * time.Second) // 61s after the accepted action
	if d := cache.CanProcess(1, ActionMessageSent, req("ua2", "10.0.0.2")); !d.Allowed {
		t.Fatalf("expected acceptance after cooldown, got %q", d.Reason)
	}
}

func TestCacheBlacklistAfterRepeatedPenalties(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	accept(t, cache, 7, ActionCheckIn, req("ua", "10.0.0.1"))

	// Five cooldown rejections leave the penalty at the limit; the sixth
	// crosses it and blacklists.
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if d := cache.CanProcess(7, ActionMessageSent, req("ua", "10.0.0.1")); d.Reason != ReasonCooldown {
			t.Fatalf("attempt %d reason = %q, want cooldown", i+1, d.Reason)
		}
	}
	clock.Advance(time.Second)
	if d := cache.CanProcess(7, ActionMessageSent, req("ua", "10.0.0.1")); d.Reason != ReasonBlacklisted {
		t.Fatalf("sixth rejection reason = %q, want blacklisted", d.Reason)
	}

	// Otherwise-valid actions stay blocked during the window.
	clock.Advance(5 * time.Minute)
	if d := cache.CanProcess(7, ActionTaskCompleted, req("ua", "10.0.0.1")); d.Reason != ReasonBlacklisted {
		t.Fatalf("during blacklist reason = %q, want blacklisted", d.Reason)
	}

	// After the window the deadline re-check lets the employee through even
	// if the eviction timer has not fired on the fake clock.
	clock.Advance(6 * time.Minute)
	if d := cache.CanProcess(7, ActionTaskCompleted, req("ua2", "10.0.0.2")); !d.Allowed {
		t.Fatalf("after blacklist window got %q, want acceptance", d.Reason)
	}
}

func TestCacheOneActionTypePerDay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	accept(t, cache, 1, ActionCheckIn, req("ua", "10.0.0.1"))

	clock.Advance(2 * time.Hour)
	if d := cache.CanProcess(1, ActionCheckIn, req("ua2", "10.0.0.2")); d.Reason != ReasonAlreadyToday {
		t.Fatalf("same-day repeat reason = %q, want already-today", d.Reason)
	}

	// A new calendar day clears the per-type gate.
	clock.AdvanceDays(1)
	if d := cache.CanProcess(1, ActionCheckIn, req("ua3", "10.0.0.3")); !d.Allowed {
		t.Fatalf("next-day check_in rejected: %s", d.Reason)
	}
}

func TestCacheFingerprintReplay(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	accept(t, cache, 1, ActionCheckIn, req("firefox", "10.0.0.1"))

	// A rejected attempt mid-cooldown still refreshes the fingerprint
	// window.
	clock.Advance(40 * time.Second)
	if d := cache.CanProcess(1, ActionMessageSent, req("firefox", "10.0.0.1")); d.Reason != ReasonCooldown {
		t.Fatalf("mid-cooldown attempt reason = %q, want cooldown", d.Reason)
	}

	// 65s after the acceptance the cooldown has passed, but the same UA and
	// /24 was seen 25s ago: a refresh replay.
	clock.Advance(25 * time.Second)
	if d := cache.CanProcess(1, ActionMessageSent, req("firefox", "10.0.0.1")); d.Reason != ReasonReplay {
		t.Fatalf("replayed fingerprint reason = %q, want replay", d.Reason)
	}

	// A different browser from the same /24 is a distinct session.
	clock.Advance(2 * time.Minute)
	if d := cache.CanProcess(1, ActionTaskCompleted, req("chrome", "10.0.0.99")); !d.Allowed {
		t.Fatalf("different UA should pass, got %q", d.Reason)
	}
}

func TestCacheUnknownActionRejected(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	if d := cache.CanProcess(1, "made_up_thing", req("ua", "10.0.0.1")); d.Allowed || d.Reason != ReasonUnknownAction {
		t.Fatalf("unknown action allowed=%v reason=%q", d.Allowed, d.Reason)
	}
}

func TestCacheDebugLogBounded(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	for i := 0; i < 80; i++ {
		cache.CanProcess(3, "click", req("ua", "10.0.0.1"))
		clock.Advance(time.Second)
	}

	log := cache.DebugLog(3)
	if len(log) != debugLogCap {
		t.Fatalf("debug log length = %d, want %d", len(log), debugLogCap)
	}
	for _, d := range log {
		if d.Allowed || d.Reason != ReasonForbiddenAction {
			t.Fatalf("unexpected entry %+v", d)
		}
	}
}

func TestCachePenaltyClearedByAcceptance(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	cache := newTestCache(clock)
	defer cache.Close()

	accept(t, cache, 9, ActionCheckIn, req("ua", "10.0.0.1"))
	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		cache.CanProcess(9, ActionMessageSent, req("ua", "10.0.0.1"))
	}

	// Acceptance resets the counter, so another burst starts from zero
	// instead of tripping the blacklist.
	clock.Advance(2 * time.Minute)
	accept(t, cache, 9, ActionMessageSent, req("ua2", "10.0.0.2"))
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if d := cache.CanProcess(9, ActionTaskCompleted, req("ua2", "10.0.0.2")); d.Reason == ReasonBlacklisted {
			t.Fatalf("blacklisted after %d post-acceptance rejections", i+1)
		}
	}
}
