package officelocation

import "errors"

var (
	ErrOfficeLocationNotFound = errors.New("office location not configured for team")
	ErrTeamNotFound           = errors.New("team not found")
)
