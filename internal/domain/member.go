package domain

// MemberLocation is a chat participant's stored location. Read-only for
// the conversion core; the store owns its lifecycle. Username is empty
// when the platform exposes none.
type MemberLocation struct {
	UserID   int64
	Platform string
	City     string
	Timezone string // IANA identifier, e.g. "Europe/Berlin"
	Flag     string // emoji country flag, may be empty
	Username string
}

// GeoResult is a resolved location as returned by the geocoding layer.
type GeoResult struct {
	City        string
	Timezone    string
	CountryCode string
	Flag        string
	DisplayName string
}
