package motionplan

import "github.com/pkg/errors"

// ErrInvalidConfiguration is the common cause behind every configuration and
// input validation failure; callers can test for it with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid planner configuration")

// NewPlanningFailedError wraps a variant's runtime failure for propagation.
// Finding no path is not a failure: that returns an empty path and nil error.
func NewPlanningFailedError(err error) error {
	return errors.Wrap(err, "motion planner failed")
}
