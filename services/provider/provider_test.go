package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/services/storage"
	"homeserve/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

var now = time.Date(2026, 10, 16, 10, 0, 0, 0, ist)

type memStorage struct {
	uploads []string
	deleted []string
	fail    error
}

func (m *memStorage) Upload(_ context.Context, r io.Reader, folder string) (storage.UploadedFile, error) {
	if m.fail != nil {
		return storage.UploadedFile{}, m.fail
	}
	if _, err := io.ReadAll(r); err != nil {
		return storage.UploadedFile{}, err
	}
	id := fmt.Sprintf("%s/%d", folder, len(m.uploads)+1)
	m.uploads = append(m.uploads, id)
	return storage.UploadedFile{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (m *memStorage) Delete(_ context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}

type recordedEvents struct {
	events []models.BookingEventPayload
}

func (r *recordedEvents) PublishBookingEvent(_ context.Context, e models.BookingEventPayload) error {
	r.events = append(r.events, e)
	return nil
}

type fixture struct {
	svc       *DefaultProviderService
	providers *testutil.ProviderRepo
	bookings  *testutil.BookingRepo
	files     *memStorage
	events    *recordedEvents
}

func newFixture(t *testing.T, enforce bool, providers []models.ServiceProvider, bookings ...models.Booking) fixture {
	catalog := testutil.NewCatalogRepo().
		WithService("s-ac", "AC Repair").
		WithService("s-pl", "Plumbing").
		WithSubservice("ss-gas", "s-ac", "Gas refill").
		WithSubservice("ss-tap", "s-pl", "Tap fix")
	f := fixture{
		providers: testutil.NewProviderRepo(providers...),
		bookings:  testutil.NewBookingRepo(bookings...),
		files:     &memStorage{},
		events:    &recordedEvents{},
	}
	svc, err := NewProviderService(f.providers, f.bookings, catalog, f.files, f.events,
		Options{EnforceCapability: enforce, Location: ist, DocumentFolder: "docs"},
		models.PagingDefaults{DefaultLimit: 10, MaxLimit: 100}, nil)
	require.NoError(t, err)
	svc.Now = testutil.FixedClock(now)
	f.svc = svc
	return f
}

func activeProvider(id string, avg float64, total int) models.ServiceProvider {
	return models.ServiceProvider{
		ID:           id,
		Name:         "Provider " + id,
		PhoneNumber:  "98765" + fmt.Sprintf("%05d", len(id)),
		Email:        id + "@example.com",
		Services:     []string{"s-ac"},
		Subservices:  []string{"ss-gas"},
		AadhaarCard:  models.IdentityDocument{Number: "1234567890" + fmt.Sprintf("%02d", len(id)), Verified: true},
		PanCard:      models.IdentityDocument{Number: "ABCDE" + fmt.Sprintf("%04d", len(id)) + "F", Verified: true},
		Availability: models.DefaultAvailability(),
		Status:       models.ProviderActive,
		Rating:       models.RatingStats{Average: avg, TotalRatings: total, Distribution: models.EmptyDistribution()},
	}
}

func createInput() CreateProviderInput {
	return CreateProviderInput{
		Name:        "Ravi Kumar",
		Email:       "Ravi@Example.com ",
		PhoneNumber: "9876543210",
		Services:    []string{"s-ac"},
		Subservices: []string{"ss-gas"},
		AadhaarCard: "123412341234",
		PanCard:     "abcde1234f",
		Address:     models.ProviderAddress{City: "Pune"},
	}
}

func uploads() DocumentUploads {
	return DocumentUploads{
		AadhaarCard:   strings.NewReader("aadhaar"),
		PanCard:       strings.NewReader("pan"),
		PassportPhoto: strings.NewReader("photo"),
	}
}

func TestCreateProvider(t *testing.T) {
	f := newFixture(t, true, nil)

	p, err := f.svc.Create(context.Background(), "admin-1", createInput(), uploads())
	require.NoError(t, err)

	assert.Equal(t, models.ProviderVerificationPending, p.Status)
	assert.Equal(t, "ravi@example.com", p.Email)
	assert.Equal(t, "ABCDE1234F", p.PanCard.Number)
	assert.Equal(t, float64(defaultCommission), p.Commission)
	assert.Equal(t, "India", p.Address.Country)
	assert.Equal(t, "admin-1", p.CreatedBy)
	assert.Len(t, p.Availability, 7)
	assert.Equal(t, "https://cdn.test/docs/aadhaarCard/1", p.AadhaarCard.Image)
	assert.Equal(t, "docs/passportPhoto/3", p.PassportPhoto.ImagePublicID)
	assert.Contains(t, f.providers.Providers, p.ID)
}

func TestCreateProviderRequiresDocuments(t *testing.T) {
	f := newFixture(t, true, nil)

	docs := uploads()
	docs.PassportPhoto = nil
	_, err := f.svc.Create(context.Background(), "admin-1", createInput(), docs)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Empty(t, f.files.uploads)

	in := createInput()
	in.PassportPhoto = "https://cdn.test/existing.jpg"
	_, err = f.svc.Create(context.Background(), "admin-1", in, docs)
	assert.NoError(t, err)
}

func TestCreateProviderConflicts(t *testing.T) {
	existing := activeProvider("p-1", 0, 0)
	existing.PhoneNumber = "9876543210"
	existing.PanCard.Number = "ABCDE1234F"

	f := newFixture(t, true, []models.ServiceProvider{existing})

	_, err := f.svc.Create(context.Background(), "admin-1", createInput(), uploads())
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Contains(t, err.Error(), "Phone number already registered")

	in := createInput()
	in.PhoneNumber = "9000000000"
	_, err = f.svc.Create(context.Background(), "admin-1", in, uploads())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAN number already registered")
}

func TestCreateProviderUnknownService(t *testing.T) {
	f := newFixture(t, true, nil)
	in := createInput()
	in.Services = []string{"s-missing"}

	_, err := f.svc.Create(context.Background(), "admin-1", in, uploads())
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCreateProviderUploadFailure(t *testing.T) {
	f := newFixture(t, true, nil)
	f.files.fail = errors.New("cloud down")

	_, err := f.svc.Create(context.Background(), "admin-1", createInput(), uploads())
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindExternalService))
	assert.Empty(t, f.providers.Providers)
}

func TestUpdateProviderUniquenessExcludesSelf(t *testing.T) {
	a := activeProvider("p-1", 0, 0)
	b := activeProvider("p-22", 0, 0)
	f := newFixture(t, true, []models.ServiceProvider{a, b})
	ctx := context.Background()

	same := a.Email
	name := "Renamed"
	p, err := f.svc.Update(ctx, "p-1", ProviderPatch{Email: &same, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)

	taken := strings.ToUpper(b.Email)
	_, err = f.svc.Update(ctx, "p-1", ProviderPatch{Email: &taken})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Contains(t, err.Error(), "Email already registered")
}

func TestUpdateProviderNewDocumentNumberResetsVerification(t *testing.T) {
	f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)})

	pan := "zzzzz9999z"
	p, err := f.svc.Update(context.Background(), "p-1", ProviderPatch{PanCard: &pan})
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZ9999Z", p.PanCard.Number)
	assert.False(t, p.PanCard.Verified)
	assert.Equal(t, models.ProviderVerificationPending, p.Status)
}

func TestUploadDocumentsReplacesOldFiles(t *testing.T) {
	existing := activeProvider("p-1", 0, 0)
	existing.AadhaarCard.ImagePublicID = "old-aadhaar"
	f := newFixture(t, true, []models.ServiceProvider{existing})

	p, err := f.svc.UploadDocuments(context.Background(), "p-1", DocumentUploads{AadhaarCard: strings.NewReader("new")})
	require.NoError(t, err)
	assert.Equal(t, "docs/aadhaarCard/1", p.AadhaarCard.ImagePublicID)
	assert.False(t, p.AadhaarCard.Verified)
	assert.Equal(t, models.ProviderVerificationPending, p.Status)
	assert.Equal(t, []string{"old-aadhaar"}, f.files.deleted)
}

func TestVerify(t *testing.T) {
	pending := activeProvider("p-1", 0, 0)
	pending.Status = models.ProviderVerificationPending
	pending.AadhaarCard.Verified = false
	pending.PanCard.Verified = false
	yes := true

	t.Run("both documents activate", func(t *testing.T) {
		f := newFixture(t, true, []models.ServiceProvider{pending})
		p, err := f.svc.Verify(context.Background(), "p-1", "admin-1", VerifyInput{
			VerifyDocuments: DocumentFlags{AadhaarCard: &yes, PanCard: &yes},
			Notes:           "checked in person",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ProviderActive, p.Status)
		assert.Equal(t, "admin-1", p.VerifiedBy)
		require.NotNil(t, p.VerifiedAt)
		assert.True(t, p.VerifiedAt.Equal(now))
		assert.Equal(t, "checked in person", p.Notes)
	})

	t.Run("one document stays pending", func(t *testing.T) {
		f := newFixture(t, true, []models.ServiceProvider{pending})
		p, err := f.svc.Verify(context.Background(), "p-1", "admin-1", VerifyInput{
			VerifyDocuments: DocumentFlags{AadhaarCard: &yes},
		})
		require.NoError(t, err)
		assert.True(t, p.AadhaarCard.Verified)
		assert.False(t, p.PanCard.Verified)
		assert.Equal(t, models.ProviderVerificationPending, p.Status)
	})

	t.Run("missing provider", func(t *testing.T) {
		f := newFixture(t, true, nil)
		_, err := f.svc.Verify(context.Background(), "nope", "admin-1", VerifyInput{})
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})
}

func TestVerifyDocument(t *testing.T) {
	pending := activeProvider("p-1", 0, 0)
	pending.PanCard.Verified = false
	pending.Status = models.ProviderVerificationPending
	f := newFixture(t, true, []models.ServiceProvider{pending})
	ctx := context.Background()

	_, err := f.svc.VerifyDocument(ctx, "p-1", "admin-1", VerifyDocumentInput{DocumentType: "passport", Verified: true})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	p, err := f.svc.VerifyDocument(ctx, "p-1", "admin-1", VerifyDocumentInput{DocumentType: models.DocumentPAN, Verified: true})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderActive, p.Status)

	p, err = f.svc.VerifyDocument(ctx, "p-1", "admin-1", VerifyDocumentInput{DocumentType: models.DocumentAadhaar, Verified: false})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderVerificationPending, p.Status)
}

func TestSuspend(t *testing.T) {
	f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)})

	p, err := f.svc.Suspend(context.Background(), "p-1", "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderSuspended, p.Status)
	assert.Equal(t, "Suspended by admin", p.Notes)
}

func TestDeleteProviderGuardedByActiveBookings(t *testing.T) {
	confirmed := models.Booking{ID: "b-1", ProviderID: "p-1", Status: models.BookingConfirmed}
	f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)}, confirmed)
	ctx := context.Background()

	err := f.svc.Delete(ctx, "p-1", "admin-1")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Contains(t, err.Error(), "Cannot delete service provider with active bookings")

	confirmed.Status = models.BookingCompleted
	f.bookings.Bookings["b-1"] = confirmed
	require.NoError(t, f.svc.Delete(ctx, "p-1", "admin-1"))
	assert.NotContains(t, f.providers.Providers, "p-1")
}

func TestAvailableProviders(t *testing.T) {
	low := activeProvider("p-low", 3.5, 10)
	high := activeProvider("p-high", 4.8, 3)
	tie := activeProvider("p-tie", 4.8, 12)
	plumber := activeProvider("p-plumber", 5, 1)
	plumber.Services, plumber.Subservices = []string{"s-pl"}, []string{"ss-tap"}
	off := activeProvider("p-off", 5, 50)
	off.Availability["monday"] = models.DayWindow{Start: "09:00", End: "18:00", Available: false}
	suspended := activeProvider("p-susp", 5, 50)
	suspended.Status = models.ProviderSuspended

	all := []models.ServiceProvider{low, high, tie, plumber, off, suspended}
	criteria := AvailabilityCriteria{
		Services:    []string{"s-ac"},
		Subservices: []string{"ss-gas"},
		Date:        "2026-10-19",
		Time:        "10:30",
	}

	ids := func(ps []models.ServiceProvider) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	t.Run("enforced", func(t *testing.T) {
		f := newFixture(t, true, all)
		got, err := f.svc.AvailableProviders(context.Background(), criteria)
		require.NoError(t, err)
		assert.Equal(t, []string{"p-tie", "p-high", "p-low"}, ids(got))
	})

	t.Run("not enforced", func(t *testing.T) {
		f := newFixture(t, false, all)
		got, err := f.svc.AvailableProviders(context.Background(), criteria)
		require.NoError(t, err)
		assert.Len(t, got, len(all))
		assert.Equal(t, "p-low", got[len(got)-1].ID)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, true, all)
		c := criteria
		c.Date = "19-10-2026"
		_, err := f.svc.AvailableProviders(context.Background(), c)
		assert.True(t, utils.IsKind(err, utils.KindValidation))
	})
}

func mondayBooking(id string, status models.BookingStatus) models.Booking {
	return models.Booking{
		ID: id, UserID: "u-1", Services: []string{"s-ac"}, Subservices: []string{"ss-gas"},
		Date: time.Date(2026, 10, 19, 0, 0, 0, 0, ist), Time: "10:30", Status: status,
	}
}

func TestAssignToBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns and publishes", func(t *testing.T) {
		f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)}, mondayBooking("b-1", models.BookingPending))
		b, err := f.svc.AssignToBooking(ctx, "p-1", "b-1", "admin-1")
		require.NoError(t, err)
		assert.Equal(t, "p-1", b.ProviderID)
		assert.Equal(t, "admin-1", b.AssignedBy)
		require.NotNil(t, b.AssignedAt)
		assert.Equal(t, "p-1", f.bookings.Bookings["b-1"].ProviderID)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, models.BookingEventAssigned, f.events.events[0].Event)
		assert.Equal(t, "u-1", f.events.events[0].UserID)
	})

	t.Run("missing entities", func(t *testing.T) {
		f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)}, mondayBooking("b-1", models.BookingPending))
		_, err := f.svc.AssignToBooking(ctx, "nope", "b-1", "admin-1")
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
		_, err = f.svc.AssignToBooking(ctx, "p-1", "nope", "admin-1")
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})

	t.Run("closed booking", func(t *testing.T) {
		f := newFixture(t, false, []models.ServiceProvider{activeProvider("p-1", 0, 0)}, mondayBooking("b-1", models.BookingCancelled))
		_, err := f.svc.AssignToBooking(ctx, "p-1", "b-1", "admin-1")
		assert.True(t, utils.IsKind(err, utils.KindValidation))
	})

	t.Run("capability only when enforced", func(t *testing.T) {
		plumber := activeProvider("p-1", 0, 0)
		plumber.Services, plumber.Subservices = []string{"s-pl"}, []string{"ss-tap"}

		f := newFixture(t, true, []models.ServiceProvider{plumber}, mondayBooking("b-1", models.BookingPending))
		_, err := f.svc.AssignToBooking(ctx, "p-1", "b-1", "admin-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot handle")

		f = newFixture(t, false, []models.ServiceProvider{plumber}, mondayBooking("b-1", models.BookingPending))
		_, err = f.svc.AssignToBooking(ctx, "p-1", "b-1", "admin-1")
		assert.NoError(t, err)
	})

	t.Run("outside working hours", func(t *testing.T) {
		late := mondayBooking("b-1", models.BookingPending)
		late.Time = "19:00"
		f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)}, late)
		_, err := f.svc.AssignToBooking(ctx, "p-1", "b-1", "admin-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})
}

func TestStats(t *testing.T) {
	p := activeProvider("p-1", 4.5, 2)
	done1 := mondayBooking("b-1", models.BookingCompleted)
	done1.ProviderID, done1.FinalPrice = "p-1", 500
	done2 := mondayBooking("b-2", models.BookingCompleted)
	done2.ProviderID, done2.FinalPrice = "p-1", 250.5
	open := mondayBooking("b-3", models.BookingConfirmed)
	open.ProviderID, open.FinalPrice = "p-1", 1000
	other := mondayBooking("b-4", models.BookingCompleted)
	other.ProviderID, other.FinalPrice = "p-2", 999

	f := newFixture(t, true, []models.ServiceProvider{p}, done1, done2, open, other)
	stats, err := f.svc.Stats(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(2), stats.ByStatus[models.BookingCompleted])
	assert.Equal(t, int64(1), stats.ByStatus[models.BookingConfirmed])
	assert.InDelta(t, 750.5, stats.Earnings, 0.001)
	assert.Equal(t, 4.5, stats.Rating.Average)
}

func TestListRejectsUnknownVerificationStatus(t *testing.T) {
	f := newFixture(t, true, nil)
	_, err := f.svc.List(context.Background(), providerRepo.ProviderFilter{VerificationStatus: "maybe"}, models.PageRequest{})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestAvailabilityIsValidated(t *testing.T) {
	cases := map[string]models.Availability{
		"unpadded time":    {"monday": {Start: "9:00", End: "18:00", Available: true}},
		"capitalized day":  {"Monday": {Start: "09:00", End: "18:00", Available: true}},
		"unknown day":      {"funday": {Start: "09:00", End: "18:00", Available: true}},
		"end before start": {"monday": {Start: "18:00", End: "09:00", Available: true}},
		"out of range":     {"monday": {Start: "09:00", End: "24:30", Available: true}},
		"missing end":      {"monday": {Start: "09:00", Available: true}},
	}
	for name, availability := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)})
			ctx := context.Background()

			in := createInput()
			in.Availability = availability
			_, err := f.svc.Create(ctx, "admin-1", in, uploads())
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation))
			assert.Empty(t, f.files.uploads)

			_, err = f.svc.Update(ctx, "p-1", ProviderPatch{Availability: availability})
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation))
			assert.Equal(t, models.DefaultAvailability(), f.providers.Providers["p-1"].Availability)
		})
	}
}

func TestAvailabilityAcceptsDayOff(t *testing.T) {
	f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)})

	week := models.DefaultAvailability()
	week["sunday"] = models.DayWindow{Available: false}
	p, err := f.svc.Update(context.Background(), "p-1", ProviderPatch{Availability: week})
	require.NoError(t, err)
	assert.False(t, p.Availability["sunday"].Available)
	assert.True(t, p.IsAvailable("monday", "10:30"))
}
