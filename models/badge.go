package models

import "time"

// Fixed keys for badges the platform manages itself. Sync and milestone code
// looks badges up by these, never by display name.
const (
	SystemKeyDiscordMember  = "discord_member"
	SystemKeyDiscordBooster = "discord_booster"
	SystemKeyPremium        = "premium"
	SystemKeyVerified       = "verified"
)

// Badge is a catalog entry. SystemKey is set only for platform-defined
// badges; those refuse name/slug changes and deletion through the admin
// surface.
type Badge struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id" yaml:"-"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name" yaml:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug" yaml:"slug"`
	SystemKey   *string `gorm:"uniqueIndex" json:"system_key,omitempty" yaml:"system_key,omitempty"`
	IsSystem    bool    `gorm:"default:false" json:"is_system" yaml:"is_system"`
	Description string  `gorm:"type:text" json:"description" yaml:"description"`
	Icon        string  `gorm:"type:text" json:"icon" yaml:"icon"`
	Color       string  `gorm:"size:16" json:"color" yaml:"color"`
	Category    string  `gorm:"size:32;index" json:"category" yaml:"category"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at" yaml:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at" yaml:"-"`
}

// UserBadge: awarded instance (many-to-many). The composite unique index is
// what guarantees a badge is held at most once.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"index:idx_user_badge,unique;not null" json:"user_id"`
	BadgeID   string    `gorm:"index:idx_user_badge,unique;not null" json:"badge_id"`
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

func systemKey(k string) *string { return &k }

// SystemBadgeCatalog is the authoritative built-in catalog, upserted by name
// at startup. Every slug the milestone tables reference must appear here.
var SystemBadgeCatalog = []Badge{
	// Referral milestones
	{Name: "Recruiter", Slug: "recruiter", SystemKey: systemKey("referral_5"), IsSystem: true, Description: "Referred 5 users", Icon: "badges/recruiter.svg", Color: "#4ade80", Category: "referral"},
	{Name: "Ambassador", Slug: "ambassador", SystemKey: systemKey("referral_25"), IsSystem: true, Description: "Referred 25 users", Icon: "badges/ambassador.svg", Color: "#22d3ee", Category: "referral"},
	{Name: "Legend", Slug: "legend", SystemKey: systemKey("referral_100"), IsSystem: true, Description: "Referred 100 users", Icon: "badges/legend.svg", Color: "#a78bfa", Category: "referral"},
	{Name: "Icon", Slug: "icon", SystemKey: systemKey("referral_500"), IsSystem: true, Description: "Referred 500 users", Icon: "badges/icon.svg", Color: "#f472b6", Category: "referral"},
	{Name: "Titan", Slug: "titan", SystemKey: systemKey("referral_1000"), IsSystem: true, Description: "Referred 1,000 users", Icon: "badges/titan.svg", Color: "#fb923c", Category: "referral"},
	{Name: "Warlord", Slug: "warlord", SystemKey: systemKey("referral_2500"), IsSystem: true, Description: "Referred 2,500 users", Icon: "badges/warlord.svg", Color: "#f87171", Category: "referral"},
	{Name: "Emperor", Slug: "emperor", SystemKey: systemKey("referral_5000"), IsSystem: true, Description: "Referred 5,000 users", Icon: "badges/emperor.svg", Color: "#facc15", Category: "referral"},
	{Name: "Godlike", Slug: "godlike", SystemKey: systemKey("referral_10000"), IsSystem: true, Description: "Referred 10,000 users", Icon: "badges/godlike.svg", Color: "#e879f9", Category: "referral"},

	// Profile view milestones
	{Name: "Observer", Slug: "observer", SystemKey: systemKey("views_500"), IsSystem: true, Description: "500 profile views", Icon: "badges/observer.svg", Color: "#94a3b8", Category: "views"},
	{Name: "Rising Star", Slug: "rising-star", SystemKey: systemKey("views_1000"), IsSystem: true, Description: "1,000 profile views", Icon: "badges/rising-star.svg", Color: "#4ade80", Category: "views"},
	{Name: "Socialite", Slug: "socialite", SystemKey: systemKey("views_2500"), IsSystem: true, Description: "2,500 profile views", Icon: "badges/socialite.svg", Color: "#22d3ee", Category: "views"},
	{Name: "Influencer", Slug: "influencer", SystemKey: systemKey("views_5000"), IsSystem: true, Description: "5,000 profile views", Icon: "badges/influencer.svg", Color: "#a78bfa", Category: "views"},
	{Name: "Superstar", Slug: "superstar", SystemKey: systemKey("views_10000"), IsSystem: true, Description: "10,000 profile views", Icon: "badges/superstar.svg", Color: "#f472b6", Category: "views"},
	{Name: "Celebrity", Slug: "celebrity", SystemKey: systemKey("views_25000"), IsSystem: true, Description: "25,000 profile views", Icon: "badges/celebrity.svg", Color: "#fb923c", Category: "views"},
	{Name: "Internet Sensation", Slug: "internet-sensation", SystemKey: systemKey("views_50000"), IsSystem: true, Description: "50,000 profile views", Icon: "badges/internet-sensation.svg", Color: "#f87171", Category: "views"},
	{Name: "World Class", Slug: "world-class", SystemKey: systemKey("views_100000"), IsSystem: true, Description: "100,000 profile views", Icon: "badges/world-class.svg", Color: "#facc15", Category: "views"},

	// Synced from the Discord membership provider — these can be revoked
	{Name: "Community Member", Slug: "community-member", SystemKey: systemKey(SystemKeyDiscordMember), IsSystem: true, Description: "Member of the Discord community", Icon: "badges/community-member.svg", Color: "#5865f2", Category: "discord"},
	{Name: "Server Booster", Slug: "server-booster", SystemKey: systemKey(SystemKeyDiscordBooster), IsSystem: true, Description: "Boosting the Discord server", Icon: "badges/server-booster.svg", Color: "#ff73fa", Category: "discord"},

	// Display-only status badges
	{Name: "Premium", Slug: "premium", SystemKey: systemKey(SystemKeyPremium), IsSystem: true, Description: "Premium subscriber", Icon: "badges/premium.svg", Color: "#facc15", Category: "status"},
	{Name: "Verified", Slug: "verified", SystemKey: systemKey(SystemKeyVerified), IsSystem: true, Description: "Verified account", Icon: "badges/verified.svg", Color: "#38bdf8", Category: "status"},
}
