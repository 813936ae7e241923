package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("Europe/Berlin"))
	assert.True(t, IsValid("UTC"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Not/AZone"))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", Location("bogus").String())
	assert.Equal(t, "America/New_York", Location("America/New_York").String())
}

func TestNowInUsesZone(t *testing.T) {
	now := NowIn("Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", now.Location().String())
}
