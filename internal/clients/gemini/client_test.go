package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInternalError(t *testing.T) {
	assert.False(t, isInternalError(nil))
	assert.True(t, isInternalError(errors.New("googleapi: Error 500: internal")))
	assert.False(t, isInternalError(errors.New("googleapi: Error 400: bad request")))
}

func TestRateLimitSetters(t *testing.T) {
	c := &Client{}
	c.SetMinuteRateLimit(60)
	c.SetDayRateLimit(1500)

	assert.InDelta(t, 1.0, float64(c.minuteRateLimiter.Limit()), 0.0001)
	assert.Equal(t, 1500, c.dayRateLimiter.Burst())
}
