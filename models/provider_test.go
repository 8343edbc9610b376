package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRatingStatsAdd(t *testing.T) {
	t.Run("same value repeated", func(t *testing.T) {
		s := NewRatingStats()
		for i := 0; i < 3; i++ {
			s.Add(4)
		}
		assert.Equal(t, 4.0, s.Average)
		assert.Equal(t, 3, s.TotalRatings)
		assert.Equal(t, 3, s.Distribution["4"])
	})

	t.Run("mixed values round to two places", func(t *testing.T) {
		var s RatingStats
		for _, v := range []int{5, 5, 4, 3} {
			s.Add(v)
		}
		assert.Equal(t, 4.25, s.Average)
		assert.Equal(t, 4, s.TotalRatings)
		assert.Equal(t, 0, s.Distribution["1"])
	})

	t.Run("repeating decimal", func(t *testing.T) {
		s := NewRatingStats()
		for _, v := range []int{5, 4, 4} {
			s.Add(v)
		}
		assert.Equal(t, 4.33, s.Average)
	})
}

func TestRecomputeStatus(t *testing.T) {
	p := &ServiceProvider{Status: ProviderSuspended}
	p.AadhaarCard.Verified = true
	p.RecomputeStatus()
	assert.Equal(t, ProviderVerificationPending, p.Status)

	p.PanCard.Verified = true
	p.RecomputeStatus()
	assert.Equal(t, ProviderActive, p.Status)
}

func TestCanHandleAndIsAvailable(t *testing.T) {
	p := &ServiceProvider{
		Services:     []string{"s1", "s2"},
		Subservices:  []string{"ss1", "ss2", "ss3"},
		Availability: DefaultAvailability(),
	}
	p.Availability["sunday"] = DayWindow{Start: "10:00", End: "14:00", Available: false}

	assert.True(t, p.CanHandle([]string{"s1"}, []string{"ss1", "ss3"}))
	assert.False(t, p.CanHandle([]string{"s3"}, []string{"ss1"}))
	assert.False(t, p.CanHandle([]string{"s1"}, []string{"ss9"}))

	assert.True(t, p.IsAvailable("monday", "09:00"))
	assert.True(t, p.IsAvailable("monday", "18:00"))
	assert.False(t, p.IsAvailable("monday", "18:30"))
	assert.False(t, p.IsAvailable("sunday", "11:00"))
	assert.False(t, p.IsAvailable("holiday", "11:00"))

	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "monday", WeekdayKey(monday))
}
