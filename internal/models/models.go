package models

import "time"

// Farm represents a farm record.
type Farm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	OwnerID   string    `json:"ownerId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Facility represents a building or enclosure belonging to a farm.
type Facility struct {
	ID       string `json:"id"`
	FarmID   string `json:"farmId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // coop, barn, hatchery, ...
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// Chicken represents an individual bird record.
type Chicken struct {
	ID         string    `json:"id"`
	FarmID     string    `json:"farmId"`
	FacilityID string    `json:"facilityId"`
	Tag        string    `json:"tag"`
	Breed      string    `json:"breed"`
	Sex        string    `json:"sex"`
	WeightKg   float64   `json:"weightKg"`
	HatchedAt  time.Time `json:"hatchedAt"`
	Healthy    bool      `json:"healthy"`
}

// User represents a directory user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Role represents a grantable capability set.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Presentation represents a studio presentation document.
type Presentation struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	SlideCount int       `json:"slideCount"`
	Tags       []string  `json:"tags"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MediaItem represents an entry in the studio media library.
type MediaItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"` // image, video, audio
	URL       string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
}

// Playlist represents an ordered set of presentation or media entries.
type Playlist struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []PlaylistItem `json:"items"`
}

// PlaylistItem is one positioned entry of a [Playlist].
type PlaylistItem struct {
	ID       string `json:"id"`
	RefID    string `json:"refId"`
	Kind     string `json:"kind"` // presentation, media
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Stream represents a live output stream.
type Stream struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // idle, live, ended
	Viewers   int       `json:"viewers"`
	StartedAt time.Time `json:"startedAt"`
}

// Template represents a marketplace template.
type Template struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Author    string  `json:"author"`
	Category  string  `json:"category"`
	Likes     int     `json:"likes"`
	Rating    float64 `json:"rating"`
	Downloads int     `json:"downloads"`
}

// FarmExport bundles a farm with its facilities and birds for export to disk.
type FarmExport struct {
	Farm       Farm       `json:"farm"`
	Facilities []Facility `json:"facilities"`
	Chickens   []Chicken  `json:"chickens"`
}

// FacilityEvent is one message from a facility live channel: either a sensor
// or occupancy update, or an operational log line.
type FacilityEvent struct {
	Type       string         `json:"type"` // update, log
	FacilityID string         `json:"facilityId"`
	At         time.Time      `json:"at"`
	Fields     map[string]any `json:"fields,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// Profile is the minimal authenticated identity kept alongside the token.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
