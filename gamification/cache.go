package gamification

import (
	"strings"
	"sync"
	"time"
)

const debugLogCap = 50

// RequestContext carries the session hints used by the replay heuristic.
type RequestContext struct {
	UserAgent string
	ClientIP  string
}

// Decision records one accept/reject outcome for diagnostics.
type Decision struct {
	Action  string    `json:"action"`
	Allowed bool      `json:"allowed"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// CacheOptions configures the verification cache. Zero values fall back to
// the defaults used in production (60s cooldown, penalty limit 5, 10 minute
// blacklist, 30s fingerprint window).
type CacheOptions struct {
	Cooldown          time.Duration
	PenaltyLimit      int
	BlacklistFor      time.Duration
	FingerprintWindow time.Duration
	CleanupInterval   time.Duration
	Now               func() time.Time
}

type employeeState struct {
	acceptedOn        map[string]string // action type -> YYYY-MM-DD of last acceptance
	lastAccepted      time.Time
	lastFingerprint   string
	lastFingerprintAt time.Time
	penalty           int
	blacklistedUntil  time.Time
	lastSeen          time.Time
	log               []Decision
}

// VerificationCache is the cheap, in-memory first line of defense against
// duplicate or abusive point requests. It is per-process and advisory only:
// the authoritative once-per-day guarantee is the unique index on the action
// log, which holds across instances and browser tabs where this cache cannot.
type VerificationCache struct {
	mu        sync.Mutex
	employees map[uint]*employeeState
	opts      CacheOptions
	stop      chan struct{}
	closeOnce sync.Once
}

// NewVerificationCache constructs the cache and starts its periodic cleanup
// goroutine. Callers own the lifecycle and must Close it on shutdown.
func NewVerificationCache(opts CacheOptions) *VerificationCache {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 60 * time.Second
	}
	if opts.PenaltyLimit <= 0 {
		opts.PenaltyLimit = 5
	}
	if opts.BlacklistFor <= 0 {
		opts.BlacklistFor = 10 * time.Minute
	}
	if opts.FingerprintWindow <= 0 {
		opts.FingerprintWindow = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &VerificationCache{
		employees: map[uint]*employeeState{},
		opts:      opts,
		stop:      make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// Close stops the cleanup goroutine. Cached state is memory-only and simply
// discarded.
func (c *VerificationCache) Close() {
	c.closeOnce.Do(func() { close(c.stop) })
}

// CanProcess applies the rate-limit and duplicate-suppression rules for one
// claimed action and records the decision in the employee's debug ring.
func (c *VerificationCache) CanProcess(employeeID uint, actionType string, req RequestContext) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	st := c.state(employeeID, now)
	fp := fingerprint(req)

	decision := func(allowed bool, reason string) Decision {
		d := Decision{Action: actionType, Allowed: allowed, Reason: reason, At: now}
		st.appendLog(d)
		// Every attempt refreshes the fingerprint window so rapid replays of
		// the same session are visible even across rejections.
		if fp != "" {
			st.lastFingerprint = fp
			st.lastFingerprintAt = now
		}
		return d
	}

	if now.Before(st.blacklistedUntil) {
		return decision(false, ReasonBlacklisted)
	}

	if IsForbiddenAction(actionType) {
		return decision(false, ReasonForbiddenAction)
	}

	if !st.lastAccepted.IsZero() && now.Sub(st.lastAccepted) < c.opts.Cooldown {
		st.penalty++
		if st.penalty > c.opts.PenaltyLimit {
			st.blacklistedUntil = now.Add(c.opts.BlacklistFor)
			// Timer-based eviction clears the penalty counter with the ban;
			// CanProcess also rechecks the deadline in case the timer is lost
			// to a process teardown.
			time.AfterFunc(c.opts.BlacklistFor, func() { c.evictBlacklist(employeeID) })
			return decision(false, ReasonBlacklisted)
		}
		return decision(false, ReasonCooldown)
	}

	if day, ok := st.acceptedOn[actionType]; ok && day == dateKey(now) {
		return decision(false, ReasonAlreadyToday)
	}

	if fp != "" && fp == st.lastFingerprint && now.Sub(st.lastFingerprintAt) < c.opts.FingerprintWindow {
		return decision(false, ReasonReplay)
	}

	if _, ok := ActionConfigFor(actionType); !ok {
		return decision(false, ReasonUnknownAction)
	}

	return decision(true, "")
}

// Confirm records a successful award. It is called by the processor after the
// durable write, not at CanProcess time, so a hook that fired before its
// backing record existed does not burn the once-per-day slot and can retry.
func (c *VerificationCache) Confirm(employeeID uint, actionType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.opts.Now()
	st := c.state(employeeID, now)
	st.acceptedOn[actionType] = dateKey(now)
	st.lastAccepted = now
	st.penalty = 0
}

// DebugLog returns a copy of the most recent decisions for an employee,
// newest last.
func (c *VerificationCache) DebugLog(employeeID uint) []Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.employees[employeeID]
	if !ok {
		return nil
	}
	out := make([]Decision, len(st.log))
	copy(out, st.log)
	return out
}

func (c *VerificationCache) state(employeeID uint, now time.Time) *employeeState {
	st, ok := c.employees[employeeID]
	if !ok {
		st = &employeeState{acceptedOn: map[string]string{}}
		c.employees[employeeID] = st
	}
	st.lastSeen = now
	return st
}

func (c *VerificationCache) evictBlacklist(employeeID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.employees[employeeID]
	if !ok {
		return
	}
	if !c.opts.Now().Before(st.blacklistedUntil) {
		st.blacklistedUntil = time.Time{}
		st.penalty = 0
	}
}

func (c *VerificationCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup drops employee state untouched for 24 hours. Per-day acceptance
// entries age out naturally because they are keyed by calendar day.
func (c *VerificationCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.opts.Now()
	for id, st := range c.employees {
		if now.Sub(st.lastSeen) > 24*time.Hour && !now.Before(st.blacklistedUntil) {
			delete(c.employees, id)
		}
	}
}

func (st *employeeState) appendLog(d Decision) {
	st.log = append(st.log, d)
	if len(st.log) > debugLogCap {
		st.log = st.log[len(st.log)-debugLogCap:]
	}
}

// fingerprint combines the user agent with a coarse /24 view of the client IP
// so devices behind the same NAT but with different browsers stay distinct.
func fingerprint(req RequestContext) string {
	if req.UserAgent == "" && req.ClientIP == "" {
		return ""
	}
	ip := req.ClientIP
	if idx := strings.LastIndex(ip, "."); idx > 0 {
		ip = ip[:idx]
	}
	return req.UserAgent + "|" + ip
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
