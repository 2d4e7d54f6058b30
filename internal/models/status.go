package models

// Status is the closed set of beatmapset lifecycle states.
//
// The numeric values match the osu! API's approval codes and are what the
// store persists.
type Status int

const (
	StatusGraveyard Status = -2
	StatusWIP       Status = -1
	StatusPending   Status = 0
	StatusRanked    Status = 1
	StatusApproved  Status = 2
	StatusQualified Status = 3
	StatusLoved     Status = 4
)

// statusVocabulary maps osu! API v2 status strings onto [Status] values.
// Strings outside this table fall back to StatusPending.
var statusVocabulary = map[string]Status{
	"graveyard": StatusGraveyard,
	"wip":       StatusWIP,
	"pending":   StatusPending,
	"ranked":    StatusRanked,
	"approved":  StatusApproved,
	"qualified": StatusQualified,
	"loved":     StatusLoved,
}

// StatusFromAPI translates a remote status string into a [Status].
// Unrecognized strings map to StatusPending.
func StatusFromAPI(s string) Status {
	if st, ok := statusVocabulary[s]; ok {
		return st
	}
	return StatusPending
}

// String returns the display name for the status.
func (s Status) String() string {
	switch s {
	case StatusGraveyard:
		return "Graveyard"
	case StatusWIP:
		return "WIP"
	case StatusRanked:
		return "Ranked"
	case StatusApproved:
		return "Approved"
	case StatusQualified:
		return "Qualified"
	case StatusLoved:
		return "Loved"
	default:
		return "Pending"
	}
}

// Message returns the short status blurb shown next to a tracked set.
func (s Status) Message() string {
	switch s {
	case StatusGraveyard:
		return "Abandoned"
	case StatusWIP:
		return "Work in progress"
	case StatusRanked:
		return "RANKED! owo"
	case StatusApproved:
		return "Approved"
	case StatusQualified:
		return "Qualified"
	case StatusLoved:
		return "Loved"
	default:
		return "Pending approval"
	}
}

// Terminal reports whether the status ends the set's ranking journey:
// ranked, approved, or loved. Terminal transitions trigger notifications
// and, when auto-stop is enabled, disable monitoring for the set.
func (s Status) Terminal() bool {
	switch s {
	case StatusRanked, StatusApproved, StatusLoved:
		return true
	}
	return false
}

// SearchCategory returns the osu! search "s" parameter value for the status.
func (s Status) SearchCategory() string {
	switch s {
	case StatusGraveyard:
		return "graveyard"
	case StatusWIP:
		return "wip"
	case StatusRanked:
		return "ranked"
	case StatusApproved:
		return "approved"
	case StatusQualified:
		return "qualified"
	case StatusLoved:
		return "loved"
	default:
		return "pending"
	}
}
