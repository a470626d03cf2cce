package participations

import "time"

// Application statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Participation is a user's application to join a study.
type Participation struct {
	ID        int64
	StudyID   int64
	UserID    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// joined for responses
	UserName   string
	StudyTitle string
}

// ValidStatus reports whether s is one of the known application statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
