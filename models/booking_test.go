package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[BookingStatus][]BookingStatus{
		BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
		BookingConfirmed: {BookingCompleted, BookingCancelled},
	}
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingCompleted.Terminal())
	assert.False(t, BookingConfirmed.Terminal())
	assert.True(t, BookingPending.Active())
	assert.False(t, BookingCompleted.Active())
	assert.False(t, BookingStatus("archived").Valid())
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 21, PageRequest{Page: 2, Limit: 10})
	assert.Equal(t, []int{}, p.Items)
	assert.Equal(t, 3, p.Pagination.TotalPages)
	assert.Equal(t, int64(21), p.Pagination.Total)

	d := PagingDefaults{DefaultLimit: 10, MaxLimit: 50}
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, d.Normalize(PageRequest{}))
	assert.Equal(t, PageRequest{Page: 3, Limit: 50}, d.Normalize(PageRequest{Page: 3, Limit: 500}))
	assert.Equal(t, int64(100), PageRequest{Page: 3, Limit: 50}.Skip())
}

func TestNormalizeClampsHugePages(t *testing.T) {
	d := PagingDefaults{DefaultLimit: 10, MaxLimit: 100}

	req := d.Normalize(PageRequest{Page: math.MaxInt, Limit: 100})
	assert.Equal(t, MaxPage, req.Page)
	assert.Equal(t, int64(MaxPage-1)*100, req.Skip())
	assert.Positive(t, req.Skip())

	assert.Equal(t, int64(0), PageRequest{}.Skip())
}
