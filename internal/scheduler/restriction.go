package scheduler

import (
	"errors"
	"strings"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

// Restriction is a weekly window the user wants kept free of classes
type Restriction struct {
	Days  models.Weekdays
	Start models.Clock
	End   models.Clock
}

// ParseRestriction builds a Restriction from a weekday string ("MWF") and two times of day.
func ParseRestriction(days, start, end string) (Restriction, error) {
	weekdays, err := models.ParseWeekdays(days)
	if err != nil {
		return Restriction{}, invalidRestriction(days, err)
	}
	startClock, err := models.ParseClock(start)
	if err != nil {
		return Restriction{}, invalidRestriction(start, err)
	}
	endClock, err := models.ParseClock(end)
	if err != nil {
		return Restriction{}, invalidRestriction(end, err)
	}
	if endClock <= startClock {
		return Restriction{}, invalidRestriction(start+"-"+end, errors.New("window must end after it starts"))
	}

	return Restriction{Days: weekdays, Start: startClock, End: endClock}, nil
}

// ParseRestrictionToken parses the compact form "TuTh 9:00am-10:30am"
func ParseRestrictionToken(token string) (Restriction, error) {
	fields := strings.Fields(token)
	if len(fields) < 2 {
		return Restriction{}, invalidRestriction(token, errors.New("expected days and a time range"))
	}

	window := strings.Split(strings.Join(fields[1:], ""), "-")
	if len(window) != 2 {
		return Restriction{}, invalidRestriction(token, errors.New("expected start-end"))
	}

	return ParseRestriction(fields[0], window[0], window[1])
}

func invalidRestriction(input string, cause error) error {
	return apperrors.NewScheduleError(apperrors.ErrInvalidRestriction).WithDetail("%q: %v", input, cause)
}
