package shared

import (
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// parseUUID normalizes and validates a UUID-formatted identifier.
func parseUUID(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", EmptyField(field)
	}
	parsed, err := uuid.Parse(v)
	if err != nil || len(v) != 36 {
		return "", BadFormat(field, "must be a valid UUID")
	}
	return parsed.String(), nil
}

func newUUID() string {
	return uuid.NewString()
}

// ProjectID identifies a Project.
type ProjectID string

// NewProjectID generates a random ProjectID.
func NewProjectID() ProjectID { return ProjectID(newUUID()) }

// ParseProjectID validates an existing ProjectID.
func ParseProjectID(s string) (ProjectID, error) {
	v, err := parseUUID("project id", s)
	return ProjectID(v), err
}

// String returns the string representation.
func (id ProjectID) String() string { return string(id) }

// Equals compares by value.
func (id ProjectID) Equals(other ProjectID) bool { return id == other }

// EventID identifies an Event.
type EventID string

// NewEventID generates a random EventID.
func NewEventID() EventID { return EventID(newUUID()) }

// ParseEventID validates an existing EventID.
func ParseEventID(s string) (EventID, error) {
	v, err := parseUUID("event id", s)
	return EventID(v), err
}

// String returns the string representation.
func (id EventID) String() string { return string(id) }

// Equals compares by value.
func (id EventID) Equals(other EventID) bool { return id == other }

// NewsID identifies a NewsArticle.
type NewsID string

// NewNewsID generates a random NewsID.
func NewNewsID() NewsID { return NewsID(newUUID()) }

// ParseNewsID validates an existing NewsID.
func ParseNewsID(s string) (NewsID, error) {
	v, err := parseUUID("news id", s)
	return NewsID(v), err
}

// String returns the string representation.
func (id NewsID) String() string { return string(id) }

// Equals compares by value.
func (id NewsID) Equals(other NewsID) bool { return id == other }

// AuthorID identifies the author of a NewsArticle.
type AuthorID string

// ParseAuthorID validates an existing AuthorID.
func ParseAuthorID(s string) (AuthorID, error) {
	v, err := parseUUID("author id", s)
	return AuthorID(v), err
}

// String returns the string representation.
func (id AuthorID) String() string { return string(id) }

// Equals compares by value.
func (id AuthorID) Equals(other AuthorID) bool { return id == other }

// UserID identifies a User.
type UserID string

// NewUserID generates a random UserID.
func NewUserID() UserID { return UserID(newUUID()) }

// ParseUserID validates an existing UserID.
func ParseUserID(s string) (UserID, error) {
	v, err := parseUUID("user id", s)
	return UserID(v), err
}

// String returns the string representation.
func (id UserID) String() string { return string(id) }

// Equals compares by value.
func (id UserID) Equals(other UserID) bool { return id == other }

// AsAuthor reinterprets a user as a news author.
func (id UserID) AsAuthor() AuthorID { return AuthorID(id) }

// TeamMemberID identifies a TeamMember on the about page.
type TeamMemberID string

// NewTeamMemberID generates a random TeamMemberID.
func NewTeamMemberID() TeamMemberID { return TeamMemberID(newUUID()) }

// ParseTeamMemberID validates an existing TeamMemberID.
func ParseTeamMemberID(s string) (TeamMemberID, error) {
	v, err := parseUUID("team member id", s)
	return TeamMemberID(v), err
}

// String returns the string representation.
func (id TeamMemberID) String() string { return string(id) }

// NewEventRecordID generates an identifier for a domain event record.
func NewEventRecordID() string { return newUUID() }
