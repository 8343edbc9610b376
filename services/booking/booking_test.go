package booking

import (
	"context"
	"testing"
	"time"

	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// 2026-10-16 10:00 IST
var now = time.Date(2026, 10, 16, 10, 0, 0, 0, ist)

type recordedEvents struct {
	events []models.BookingEventPayload
}

func (r *recordedEvents) PublishBookingEvent(_ context.Context, e models.BookingEventPayload) error {
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	svc      *DefaultBookingService
	bookings *testutil.BookingRepo
	events   *recordedEvents
}

func newFixture(t *testing.T, bookings ...models.Booking) fixture {
	catalog := testutil.NewCatalogRepo().
		WithService("s-ac", "AC Repair").
		WithService("s-pl", "Plumbing").
		WithSubservice("ss-gas", "s-ac", "Gas refill").
		WithSubservice("ss-tap", "s-pl", "Tap fix")
	addresses := testutil.NewAddressRepo(
		models.Address{ID: "addr-1", UserID: "u-1"},
		models.Address{ID: "addr-2", UserID: "u-2"},
	)
	repo := testutil.NewBookingRepo(bookings...)
	events := &recordedEvents{}

	svc, err := NewBookingService(repo, catalog, addresses, events,
		Options{Location: ist, NotifyChanges: true},
		models.PagingDefaults{DefaultLimit: 10, MaxLimit: 100}, nil)
	require.NoError(t, err)
	svc.Now = testutil.FixedClock(now)
	return fixture{svc: svc, bookings: repo, events: events}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		Services:    []string{"s-ac"},
		Subservices: []string{"ss-gas"},
		AddressID:   "addr-1",
		Date:        "2026-10-18",
		Time:        "14:30",
		FinalPrice:  499,
	}
}

func pendingBooking(id, userID string) models.Booking {
	return models.Booking{
		ID: id, UserID: userID, Services: []string{"s-ac"}, Subservices: []string{"ss-gas"},
		AddressID: "addr-1", Date: time.Date(2026, 10, 18, 0, 0, 0, 0, ist), Time: "14:30",
		Status: models.BookingPending,
	}
}

func withStatus(b models.Booking, s models.BookingStatus) models.Booking {
	b.Status = s
	return b
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), "u-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, "u-1", b.UserID)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, ist), b.Date)
	assert.Contains(t, f.bookings.Bookings, b.ID)
}

func TestCreateBookingValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		kind   utils.ErrorKind
	}{
		{"no services", func(in *CreateBookingInput) { in.Services = nil }, utils.KindValidation},
		{"no subservices", func(in *CreateBookingInput) { in.Subservices = []string{} }, utils.KindValidation},
		{"unknown service", func(in *CreateBookingInput) { in.Services = []string{"s-nope"} }, utils.KindNotFound},
		{"unknown subservice", func(in *CreateBookingInput) { in.Subservices = []string{"ss-nope"} }, utils.KindNotFound},
		{"subservice of other service", func(in *CreateBookingInput) { in.Subservices = []string{"ss-tap"} }, utils.KindValidation},
		{"missing address", func(in *CreateBookingInput) { in.AddressID = "addr-x" }, utils.KindNotFound},
		{"foreign address", func(in *CreateBookingInput) { in.AddressID = "addr-2" }, utils.KindValidation},
		{"malformed date", func(in *CreateBookingInput) { in.Date = "18/10/2026" }, utils.KindValidation},
		{"past time today", func(in *CreateBookingInput) { in.Date, in.Time = "2026-10-16", "09:59" }, utils.KindValidation},
		{"negative price", func(in *CreateBookingInput) { in.FinalPrice = -1 }, utils.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			tc.mutate(&in)

			_, err := f.svc.Create(context.Background(), "u-1", in)
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, tc.kind), "got %v", err)
			assert.Empty(t, f.bookings.Bookings)
		})
	}
}

func TestAdminStatusTransitions(t *testing.T) {
	admin := models.Principal{ID: "admin-1", Role: models.RoleAdmin}
	f := newFixture(t, pendingBooking("b-1", "u-1"))

	confirmed := models.BookingConfirmed
	b, err := f.svc.Update(context.Background(), "b-1", admin, AdminBookingPatch{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	completed := models.BookingCompleted
	_, err = f.svc.Update(context.Background(), "b-1", admin, AdminBookingPatch{Status: &completed})
	require.NoError(t, err)

	pending := models.BookingPending
	_, err = f.svc.Update(context.Background(), "b-1", admin, AdminBookingPatch{Status: &pending})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Equal(t, models.BookingCompleted, f.bookings.Bookings["b-1"].Status)
}

func TestClientUpdateRules(t *testing.T) {
	f := newFixture(t,
		pendingBooking("b-1", "u-1"),
		withStatus(pendingBooking("b-2", "u-1"), models.BookingConfirmed),
	)
	owner := models.Principal{ID: "u-1", Role: models.RoleClient}
	stranger := models.Principal{ID: "u-2", Role: models.RoleClient}
	newTime := "16:00"

	_, err := f.svc.Update(context.Background(), "b-1", stranger, AdminBookingPatch{ClientBookingPatch: ClientBookingPatch{Time: &newTime}})
	assert.True(t, utils.IsKind(err, utils.KindAuthorization))

	price := 1.0
	_, err = f.svc.Update(context.Background(), "b-1", owner, AdminBookingPatch{FinalPrice: &price})
	assert.True(t, utils.IsKind(err, utils.KindAuthorization))

	_, err = f.svc.Update(context.Background(), "b-2", owner, AdminBookingPatch{ClientBookingPatch: ClientBookingPatch{Time: &newTime}})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	b, err := f.svc.Update(context.Background(), "b-1", owner, AdminBookingPatch{ClientBookingPatch: ClientBookingPatch{Time: &newTime}})
	require.NoError(t, err)
	assert.Equal(t, "16:00", b.Time)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, ist), b.Date)

	_, err = f.svc.Update(context.Background(), "missing", owner, AdminBookingPatch{})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, pendingBooking("b-1", "u-1"), withStatus(pendingBooking("b-2", "u-1"), models.BookingCancelled))
	ctx := context.Background()

	_, err := f.svc.Reschedule(ctx, "b-1", "u-1", "", "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.svc.Reschedule(ctx, "b-1", "u-2", "2026-10-20", "11:00")
	assert.True(t, utils.IsKind(err, utils.KindAuthorization))

	_, err = f.svc.Reschedule(ctx, "b-1", "u-1", "2026-10-15", "11:00")
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot reschedule to a past date and time", appErr.Message)

	_, err = f.svc.Reschedule(ctx, "b-2", "u-1", "2026-10-20", "11:00")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	b, err := f.svc.Reschedule(ctx, "b-1", "u-1", "2026-10-20", "11:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, ist), b.Date)
	assert.Equal(t, "11:00", b.Time)
	assert.Equal(t, models.BookingPending, b.Status)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.BookingEventRescheduled, f.events.events[0].Event)
}

func TestCancel(t *testing.T) {
	f := newFixture(t,
		pendingBooking("b-1", "u-1"),
		withStatus(pendingBooking("b-2", "u-1"), models.BookingCancelled),
		withStatus(pendingBooking("b-3", "u-1"), models.BookingCompleted),
	)
	ctx := context.Background()

	_, err := f.svc.Cancel(ctx, "b-1", "u-2", "")
	assert.True(t, utils.IsKind(err, utils.KindAuthorization))

	_, err = f.svc.Cancel(ctx, "b-2", "u-1", "again")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.svc.Cancel(ctx, "b-3", "u-1", "late")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	b, err := f.svc.Cancel(ctx, "b-1", "u-1", "plans changed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)
	assert.Equal(t, "plans changed", b.CancellationReason)
	require.NotNil(t, b.CancelledAt)
	assert.True(t, b.CancelledAt.Equal(now))
	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.BookingEventCancelled, f.events.events[0].Event)
}

func TestCancelWithoutNotifications(t *testing.T) {
	f := newFixture(t, pendingBooking("b-1", "u-1"))
	f.svc.Opts.NotifyChanges = false

	_, err := f.svc.Cancel(context.Background(), "b-1", "u-1", "")
	require.NoError(t, err)
	assert.Empty(t, f.events.events)
}

func TestDelete(t *testing.T) {
	f := newFixture(t,
		pendingBooking("b-1", "u-1"),
		withStatus(pendingBooking("b-2", "u-1"), models.BookingConfirmed),
		withStatus(pendingBooking("b-3", "u-1"), models.BookingCompleted),
	)
	ctx := context.Background()
	owner := models.Principal{ID: "u-1", Role: models.RoleClient}

	assert.True(t, utils.IsKind(f.svc.Delete(ctx, "b-1", models.Principal{ID: "u-2"}), utils.KindAuthorization))
	assert.True(t, utils.IsKind(f.svc.Delete(ctx, "b-2", owner), utils.KindValidation))
	require.NoError(t, f.svc.Delete(ctx, "b-1", owner))
	require.NoError(t, f.svc.Delete(ctx, "b-3", models.Principal{ID: "admin", Role: models.RoleAdmin}))
	assert.True(t, utils.IsKind(f.svc.Delete(ctx, "b-1", owner), utils.KindNotFound))

	assert.Len(t, f.bookings.Bookings, 1)
}

func TestListings(t *testing.T) {
	other := pendingBooking("b-2", "u-2")
	other.Services, other.Subservices = []string{"s-pl"}, []string{"ss-tap"}
	f := newFixture(t, pendingBooking("b-1", "u-1"), other)
	ctx := context.Background()

	byService, err := f.svc.ListByService(ctx, "s-pl", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byService.Items, 1)
	assert.Equal(t, "b-2", byService.Items[0].ID)

	bySub, err := f.svc.ListBySubservice(ctx, "ss-gas", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, bySub.Items, 1)
	assert.Equal(t, "b-1", bySub.Items[0].ID)

	mine, err := f.svc.ListForUser(ctx, "u-1", "", models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Pagination.Total)

	_, err = f.svc.ListAll(ctx, "bogus", models.PageRequest{})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = f.svc.GetForUser(ctx, "b-2", "u-1")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
