package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursegen/internal/app/models"
)

func TestOverlaps_InclusiveBoundaries(t *testing.T) {
	at := func(start, end int) interval { return interval{start: models.Clock(start), end: models.Clock(end)} }

	assert.True(t, overlaps(at(540, 590), at(540, 590)), "identical")
	assert.True(t, overlaps(at(540, 590), at(590, 640)), "touching at end")
	assert.True(t, overlaps(at(590, 640), at(540, 590)), "touching at start")
	assert.True(t, overlaps(at(540, 700), at(600, 620)), "containing")
	assert.True(t, overlaps(at(600, 620), at(540, 700)), "contained")
	assert.True(t, overlaps(at(500, 560), at(540, 590)), "partial")
	assert.False(t, overlaps(at(540, 590), at(600, 650)), "gap after")
	assert.False(t, overlaps(at(600, 650), at(540, 590)), "gap before")
}

func TestDetector_BackToBackConflicts(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "MW", "9:00am", "9:50am"))
	cat.addSection(2, 21, "0101", meeting(t, "W", "9:50am", "10:40am"))
	cat.addSection(2, 22, "0201", meeting(t, "W", "10:00am", "10:50am"))

	d := NewDetector(cat)

	conflict, found := d.Check([]int64{11, 21}, nil)
	require.True(t, found)
	assert.Equal(t, Conflict{Section: 21, Other: 11}, conflict)

	_, found = d.Check([]int64{11, 22}, nil)
	assert.False(t, found)
}

func TestDetector_DifferentDaysDoNotConflict(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "MWF", "9:00am", "9:50am"))
	cat.addSection(2, 21, "0101", meeting(t, "TuTh", "9:00am", "9:50am"))

	_, found := NewDetector(cat).Check([]int64{11, 21}, nil)
	assert.False(t, found)
}

func TestDetector_RestrictionOwnedBySentinel(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "TuTh", "2:00pm", "3:15pm"))

	conflict, found := NewDetector(cat).Check([]int64{11}, []Restriction{restriction(t, "Th", "3:00pm", "5:00pm")})
	require.True(t, found)
	assert.Equal(t, Conflict{Section: 11, Other: RestrictionOwner}, conflict)
}

func TestDetector_UntimedMeetingsIgnored(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", models.Meeting{Days: models.ParseMeetingDays("TBA")}, meeting(t, "M", "1:00pm", "1:50pm"))
	cat.addSection(2, 21, "0101", models.Meeting{Timed: false}, meeting(t, "M", "1:00pm", "1:50pm"))
	cat.addSection(3, 31, "0101", models.Meeting{Timed: false})

	d := NewDetector(cat)
	_, found := d.Check([]int64{11, 31}, nil)
	assert.False(t, found)

	// timed meetings after an untimed one still count
	conflict, found := d.Check([]int64{11, 21}, nil)
	require.True(t, found)
	assert.Equal(t, Conflict{Section: 21, Other: 11}, conflict)
}

func TestDetector_OwnMeetingsNeverConflict(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "M", "9:00am", "9:50am"), meeting(t, "M", "9:30am", "10:20am"))

	_, found := NewDetector(cat).Check([]int64{11}, nil)
	assert.False(t, found)
}

func TestDetector_ReportsFirstClashInInputOrder(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "F", "11:00am", "11:50am"))
	cat.addSection(2, 21, "0101", meeting(t, "F", "1:00pm", "1:50pm"))
	cat.addSection(3, 31, "0101", meeting(t, "F", "11:30am", "1:30pm"))

	conflict, found := NewDetector(cat).Check([]int64{11, 21, 31}, nil)
	require.True(t, found)
	assert.Equal(t, Conflict{Section: 31, Other: 11}, conflict)
}

func TestDetector_RepeatedSectionConflictsWithItself(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "M", "9:00am", "9:50am"))

	conflict, found := NewDetector(cat).Check([]int64{11, 11}, nil)
	require.True(t, found)
	assert.Equal(t, Conflict{Section: 11, Other: 11}, conflict)
}

func TestDetector_ReusesBuffersBetweenChecks(t *testing.T) {
	cat := newFakeCatalog()
	cat.addSection(1, 11, "0101", meeting(t, "M", "9:00am", "9:50am"))
	cat.addSection(2, 21, "0101", meeting(t, "M", "9:00am", "9:50am"))

	d := NewDetector(cat)
	_, found := d.Check([]int64{11}, nil)
	require.False(t, found)
	// 11 from the previous check must not linger
	_, found = d.Check([]int64{21}, nil)
	assert.False(t, found)
}
