package team

import "time"

// Team groups users under an optional leader. Its office location lives in
// the officelocation domain.
type Team struct {
	ID          string
	Name        string
	Description *string
	LeaderID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	LeaderName  *string
	MemberCount int
}
