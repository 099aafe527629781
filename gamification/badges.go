package gamification

// Tier is an ordered achievement level within a badge family.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

var tierOrder = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond}

// TierRank returns the position of a tier in the progression, bronze first.
// Unknown tiers rank below bronze.
func TierRank(t Tier) int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// Badge categories.
const (
	CategoryAttendance    = "attendance"
	CategoryPerformance   = "performance"
	CategoryCollaboration = "collaboration"
	CategoryInnovation    = "innovation"
	CategoryLeadership    = "leadership"
	CategoryGrowth        = "growth"
	CategorySpecial       = "special"
)

// Derived stat keys usable in tier requirements alongside raw action-type
// counts (check_in, message_sent, ...).
const (
	StatStreakDays  = "streak_days"
	StatTotalPoints = "total_points"
	StatActiveDays  = "active_days"
)

// BadgeTierDef is one tier of a badge family: the requirements to reach it
// and the points it is worth.
type BadgeTierDef struct {
	Tier         Tier
	Name         string
	Points       int
	Requirements map[string]int
}

// BadgeDef is a badge family in the static catalog. Tiers are ordered
// bronze-first; the last tier is the family's terminal state.
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	Tiers       []BadgeTierDef
}

func countTiers(stat, name string, points []int, thresholds []int) []BadgeTierDef {
	tiers := make([]BadgeTierDef, len(thresholds))
	for i, th := range thresholds {
		tiers[i] = BadgeTierDef{
			Tier:         tierOrder[i],
			Name:         name,
			Points:       points[i],
			Requirements: map[string]int{stat: th},
		}
	}
	return tiers
}

var badgeCatalog = []BadgeDef{
	{
		ID:          "early_bird",
		Name:        "Early Bird",
		Description: "Check in to start the day",
		Icon:        "sunrise",
		Category:    CategoryAttendance,
		Tiers:       countTiers(ActionCheckIn, "Early Bird", []int{10, 25, 50, 100, 200}, []int{5, 20, 60, 120, 250}),
	},
	{
		ID:          "clockwork",
		Name:        "Clockwork",
		Description: "Close out full working days",
		Icon:        "clock",
		Category:    CategoryAttendance,
		Tiers:       countTiers(ActionCheckOut, "Clockwork", []int{10, 25, 50, 100, 200}, []int{5, 20, 60, 120, 250}),
	},
	{
		ID:          "streak_keeper",
		Name:        "Streak Keeper",
		Description: "Stay active day after day",
		Icon:        "flame",
		Category:    CategoryGrowth,
		Tiers:       countTiers(StatStreakDays, "Streak Keeper", []int{15, 30, 60, 120, 250}, []int{3, 7, 14, 30, 60}),
	},
	{
		ID:          "communicator",
		Name:        "Communicator",
		Description: "Keep conversations flowing",
		Icon:        "message-circle",
		Category:    CategoryCollaboration,
		Tiers:       countTiers(ActionMessageSent, "Communicator", []int{10, 20, 40, 80, 160}, []int{10, 50, 150, 400, 1000}),
	},
	{
		ID:          "well_informed",
		Name:        "Well Informed",
		Description: "Read company announcements",
		Icon:        "megaphone",
		Category:    CategoryCollaboration,
		Tiers:       countTiers(ActionAnnouncementRead, "Well Informed", []int{5, 15, 30, 60, 120}, []int{5, 20, 50, 100, 200}),
	},
	{
		ID:          "knowledge_seeker",
		Name:        "Knowledge Seeker",
		Description: "Explore the shared document library",
		Icon:        "book-open",
		Category:    CategoryInnovation,
		Tiers:       countTiers(ActionDocumentViewed, "Knowledge Seeker", []int{5, 15, 30, 60, 120}, []int{5, 25, 75, 150, 300}),
	},
	{
		ID:          "achiever",
		Name:        "Achiever",
		Description: "Complete assigned tasks",
		Icon:        "target",
		Category:    CategoryPerformance,
		Tiers:       countTiers(ActionTaskCompleted, "Achiever", []int{15, 30, 60, 120, 250}, []int{5, 20, 50, 100, 200}),
	},
	{
		ID:          "point_collector",
		Name:        "Point Collector",
		Description: "Accumulate points across all activities",
		Icon:        "gem",
		Category:    CategoryPerformance,
		Tiers:       countTiers(StatTotalPoints, "Point Collector", []int{10, 25, 50, 100, 200}, []int{100, 300, 600, 1500, 2500}),
	},
	{
		ID:          "pacesetter",
		Name:        "Pacesetter",
		Description: "Lead by sustained delivery",
		Icon:        "trending-up",
		Category:    CategoryLeadership,
		Tiers: []BadgeTierDef{
			{Tier: TierBronze, Name: "Pacesetter", Points: 20, Requirements: map[string]int{ActionTaskCompleted: 10, StatStreakDays: 5}},
			{Tier: TierSilver, Name: "Pacesetter", Points: 40, Requirements: map[string]int{ActionTaskCompleted: 30, StatStreakDays: 10}},
			{Tier: TierGold, Name: "Pacesetter", Points: 80, Requirements: map[string]int{ActionTaskCompleted: 75, StatStreakDays: 21}},
			{Tier: TierPlatinum, Name: "Pacesetter", Points: 150, Requirements: map[string]int{ActionTaskCompleted: 150, StatStreakDays: 45}},
			{Tier: TierDiamond, Name: "Pacesetter", Points: 300, Requirements: map[string]int{ActionTaskCompleted: 250, StatStreakDays: 90}},
		},
	},
	{
		ID:          "all_rounder",
		Name:        "All Rounder",
		Description: "Active across every part of Flow HR",
		Icon:        "star",
		Category:    CategorySpecial,
		Tiers: []BadgeTierDef{
			{Tier: TierBronze, Name: "All Rounder", Points: 25, Requirements: map[string]int{ActionCheckIn: 10, ActionMessageSent: 10, ActionTaskCompleted: 5, StatTotalPoints: 150}},
			{Tier: TierSilver, Name: "All Rounder", Points: 50, Requirements: map[string]int{ActionCheckIn: 30, ActionMessageSent: 40, ActionTaskCompleted: 15, StatTotalPoints: 400}},
			{Tier: TierGold, Name: "All Rounder", Points: 100, Requirements: map[string]int{ActionCheckIn: 75, ActionMessageSent: 100, ActionTaskCompleted: 40, StatTotalPoints: 900}},
			{Tier: TierPlatinum, Name: "All Rounder", Points: 200, Requirements: map[string]int{ActionCheckIn: 150, ActionMessageSent: 250, ActionTaskCompleted: 80, StatTotalPoints: 1800}},
			{Tier: TierDiamond, Name: "All Rounder", Points: 400, Requirements: map[string]int{ActionCheckIn: 250, ActionMessageSent: 600, ActionTaskCompleted: 150, StatTotalPoints: 3000}},
		},
	},
}

// BadgeCatalog returns the static badge definitions.
func BadgeCatalog() []BadgeDef {
	return badgeCatalog
}
