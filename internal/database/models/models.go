// Package models contains the database model definitions.
// These models map directly to the database tables and keep the same
// shape as the Prisma schema of the original eventdeck Node app.
package models

import (
	"time"
)

// UserRole values for User.Role.
const (
	UserRoleAdmin     = "Admin"
	UserRoleDeveloper = "Developer"
	UserRoleUser      = "User"
)

// UserRoles lists every valid role, in display order.
var UserRoles = []string{UserRoleAdmin, UserRoleDeveloper, UserRoleUser}

// AppType values for App.Type.
const (
	AppTypeGame = "Game"
	AppTypeDLC  = "DLC"
	AppTypeTool = "Tool"
)

// AppTypes lists every valid app type.
var AppTypes = []string{AppTypeGame, AppTypeDLC, AppTypeTool}

// PlatformType values for Platform.Type.
const (
	PlatformTypeGeneric = "Generic"
	PlatformTypeSteam   = "Steam"
)

// PlatformTypes lists every valid platform type.
var PlatformTypes = []string{PlatformTypeGeneric, PlatformTypeSteam}

// ReleaseState values for AppPlatform.ReleaseState.
// ReleaseStateReleased is the default; the Steam sale export only tags
// the other states.
const (
	ReleaseStateDevelopment = "Development"
	ReleaseStateAlpha       = "Alpha"
	ReleaseStateBeta        = "Beta"
	ReleaseStateReleased    = "Released"
	ReleaseStateDelisted    = "Delisted"
)

// ReleaseStates lists every valid release state.
var ReleaseStates = []string{
	ReleaseStateDevelopment,
	ReleaseStateAlpha,
	ReleaseStateBeta,
	ReleaseStateReleased,
	ReleaseStateDelisted,
}

// EventAppPlatformStatus values. Statuses prefixed "OK_" count as
// confirmed-for-the-event; everything else is a pending or negative state.
const (
	StatusOKConfirmed = "OK_Confirmed"
	StatusOKPending   = "OK_Pending"
	StatusInvited     = "Invited"
	StatusNegotiating = "Negotiating"
	StatusDeclined    = "Declined"
	StatusCancelled   = "Cancelled"
)

// EventAppPlatformStatuses lists every valid participation status.
var EventAppPlatformStatuses = []string{
	StatusOKConfirmed,
	StatusOKPending,
	StatusInvited,
	StatusNegotiating,
	StatusDeclined,
	StatusCancelled,
}

// EventVisibility values for Event.Visibility.
const (
	EventVisibilityPublic   = "Public"
	EventVisibilityUnlisted = "Unlisted"
	EventVisibilityPrivate  = "Private"
)

// EventVisibilities lists every valid event visibility.
var EventVisibilities = []string{
	EventVisibilityPublic,
	EventVisibilityUnlisted,
	EventVisibilityPrivate,
}

// UrlType values for link records.
const (
	UrlTypeStorePage = "StorePage"
	UrlTypeWebsite   = "Website"
	UrlTypeTrailer   = "Trailer"
	UrlTypePressKit  = "PressKit"
	UrlTypeSocial    = "Social"
	UrlTypeOther     = "Other"
)

// UrlTypes lists every valid link type.
var UrlTypes = []string{
	UrlTypeStorePage,
	UrlTypeWebsite,
	UrlTypeTrailer,
	UrlTypePressKit,
	UrlTypeSocial,
	UrlTypeOther,
}

// User represents an operator account.
// Table: users
type User struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Role      string    `gorm:"column:role;default:User"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Password *Password `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == UserRoleAdmin }

// Password holds a user's bcrypt hash, kept in its own table like the
// original Prisma schema so user rows can be loaded without it.
// Table: passwords
type Password struct {
	ID     string `gorm:"column:id;primaryKey"`
	UserID string `gorm:"column:user_id;uniqueIndex"`
	Hash   string `gorm:"column:hash"`
}

func (Password) TableName() string { return "passwords" }

// Studio represents an organization owning apps.
// Table: studios
type Studio struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name;uniqueIndex"`
	Comment       *string   `gorm:"column:comment"`
	MainContactID *string   `gorm:"column:main_contact_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	MainContact *StudioMember  `gorm:"foreignKey:MainContactID"`
	Members     []StudioMember `gorm:"foreignKey:StudioID;constraint:OnDelete:CASCADE"`
	Links       []StudioLink   `gorm:"foreignKey:StudioID;constraint:OnDelete:CASCADE"`
	Apps        []App          `gorm:"foreignKey:StudioID"`
}

func (Studio) TableName() string { return "studios" }

// StudioMember links a user to a studio.
// Table: studio_members
type StudioMember struct {
	ID       string  `gorm:"column:id;primaryKey"`
	StudioID string  `gorm:"column:studio_id;index"`
	UserID   string  `gorm:"column:user_id;index"`
	Position *string `gorm:"column:position"`
	Comment  *string `gorm:"column:comment"`

	User *User `gorm:"foreignKey:UserID"`
}

func (StudioMember) TableName() string { return "studio_members" }

// StudioLink is a URL attached to a studio.
// Table: studio_links
type StudioLink struct {
	ID       string  `gorm:"column:id;primaryKey"`
	StudioID string  `gorm:"column:studio_id;index"`
	URL      string  `gorm:"column:url"`
	Title    string  `gorm:"column:title"`
	Type     string  `gorm:"column:type;default:Other"`
	Comment  *string `gorm:"column:comment"`
}

func (StudioLink) TableName() string { return "studio_links" }

// Platform represents a storefront or distribution channel.
// Table: platforms
type Platform struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex"`
	Type      string    `gorm:"column:type;default:Generic"`
	URL       *string   `gorm:"column:url"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	AppPlatforms []AppPlatform `gorm:"foreignKey:PlatformID"`
}

func (Platform) TableName() string { return "platforms" }

// App represents a game or piece of software owned by a studio.
// Table: apps
type App struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Type      string    `gorm:"column:type;default:Game"`
	StudioID  string    `gorm:"column:studio_id;index"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Studio       *Studio       `gorm:"foreignKey:StudioID"`
	AppPlatforms []AppPlatform `gorm:"foreignKey:AppID;constraint:OnDelete:CASCADE"`
}

func (App) TableName() string { return "apps" }

// AppPlatform is one app's release on one platform. The (app, platform)
// pair is unique.
// Table: app_platforms
type AppPlatform struct {
	ID            string    `gorm:"column:id;primaryKey"`
	AppID         string    `gorm:"column:app_id;index;uniqueIndex:idx_app_platform"`
	PlatformID    string    `gorm:"column:platform_id;index;uniqueIndex:idx_app_platform"`
	ReleaseState  string    `gorm:"column:release_state;default:Released"`
	IsEarlyAccess bool      `gorm:"column:is_early_access;default:false"`
	IsFreeToPlay  bool      `gorm:"column:is_free_to_play;default:false"`
	Comment       *string   `gorm:"column:comment"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	App      *App              `gorm:"foreignKey:AppID"`
	Platform *Platform         `gorm:"foreignKey:PlatformID"`
	Links    []AppPlatformLink `gorm:"foreignKey:AppPlatformID;constraint:OnDelete:CASCADE"`
}

func (AppPlatform) TableName() string { return "app_platforms" }

// AppPlatformLink is a URL attached to an app's platform release.
// Table: app_platform_links
type AppPlatformLink struct {
	ID            string  `gorm:"column:id;primaryKey"`
	AppPlatformID string  `gorm:"column:app_platform_id;index"`
	URL           string  `gorm:"column:url"`
	Title         string  `gorm:"column:title"`
	Type          string  `gorm:"column:type;default:Other"`
	Comment       *string `gorm:"column:comment"`
}

func (AppPlatformLink) TableName() string { return "app_platform_links" }

// Event represents a time-boxed sales or promotional campaign.
// Table: events
type Event struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	RunningFrom time.Time `gorm:"column:running_from"`
	RunningTo   time.Time `gorm:"column:running_to"`
	Visibility  string    `gorm:"column:visibility;default:Private"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Coordinators      []EventCoordinator `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	EventAppPlatforms []EventAppPlatform `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string { return "events" }

// EventCoordinator links a user to an event they coordinate.
// Table: event_coordinators
type EventCoordinator struct {
	ID      string `gorm:"column:id;primaryKey"`
	EventID string `gorm:"column:event_id;index;uniqueIndex:idx_event_coordinator"`
	UserID  string `gorm:"column:user_id;index;uniqueIndex:idx_event_coordinator"`

	User *User `gorm:"foreignKey:UserID"`
}

func (EventCoordinator) TableName() string { return "event_coordinators" }

// EventAppPlatform records one app platform's participation in one
// event. The (event, appPlatform) pair is unique.
// Table: event_app_platforms
type EventAppPlatform struct {
	ID            string    `gorm:"column:id;primaryKey"`
	EventID       string    `gorm:"column:event_id;index;uniqueIndex:idx_event_app_platform"`
	AppPlatformID string    `gorm:"column:app_platform_id;index;uniqueIndex:idx_event_app_platform"`
	Status        string    `gorm:"column:status"`
	Comment       *string   `gorm:"column:comment"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Event       *Event       `gorm:"foreignKey:EventID"`
	AppPlatform *AppPlatform `gorm:"foreignKey:AppPlatformID"`
}

func (EventAppPlatform) TableName() string { return "event_app_platforms" }

// AllModels is the migration list, owners before dependents.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Password{},
		&Studio{},
		&StudioMember{},
		&StudioLink{},
		&Platform{},
		&App{},
		&AppPlatform{},
		&AppPlatformLink{},
		&Event{},
		&EventCoordinator{},
		&EventAppPlatform{},
	}
}

// ValidRole reports whether role is a known user role.
func ValidRole(role string) bool { return contains(UserRoles, role) }

// ValidAppType reports whether t is a known app type.
func ValidAppType(t string) bool { return contains(AppTypes, t) }

// ValidPlatformType reports whether t is a known platform type.
func ValidPlatformType(t string) bool { return contains(PlatformTypes, t) }

// ValidReleaseState reports whether s is a known release state.
func ValidReleaseState(s string) bool { return contains(ReleaseStates, s) }

// ValidStatus reports whether s is a known participation status.
func ValidStatus(s string) bool { return contains(EventAppPlatformStatuses, s) }

// ValidVisibility reports whether v is a known event visibility.
func ValidVisibility(v string) bool { return contains(EventVisibilities, v) }

// ValidUrlType reports whether t is a known link type.
func ValidUrlType(t string) bool { return contains(UrlTypes, t) }

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
