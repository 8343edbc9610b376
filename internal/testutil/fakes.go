// Package testutil holds in-memory repository fakes for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	addressRepo "homeserve/database/repository/address"
	bookingRepo "homeserve/database/repository/booking"
	catalogRepo "homeserve/database/repository/catalog"
	providerRepo "homeserve/database/repository/provider"
	ratingRepo "homeserve/database/repository/rating"
	userRepo "homeserve/database/repository/user"
	"homeserve/models"
	"homeserve/utils"
)

var (
	_ ratingRepo.RatingRepository   = (*RatingRepo)(nil)
	_ catalogRepo.CatalogRepository = (*CatalogRepo)(nil)
	_ addressRepo.AddressRepository = (*AddressRepo)(nil)
	_ userRepo.UserRepository       = (*UserRepo)(nil)
)

type ratingFilter = ratingRepo.RatingFilter

func paginate[T any](items []T, page models.PageRequest) []T {
	start := int(page.Skip())
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ---- bookings ----

type BookingRepo struct {
	mu       sync.Mutex
	Bookings map[string]models.Booking
	Err      error
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func NewBookingRepo(bookings ...models.Booking) *BookingRepo {
	r := &BookingRepo{Bookings: map[string]models.Booking{}}
	for _, b := range bookings {
		r.Bookings[b.ID] = b
	}
	return r
}

func (r *BookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Bookings[b.ID]; ok {
		return utils.NewConflictError("Booking already exists")
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.Bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.Bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BookingRepo) GetForUser(ctx context.Context, id, userID string) (*models.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil || b == nil || b.UserID != userID {
		return nil, err
	}
	return b, nil
}

func (r *BookingRepo) Update(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.Bookings[b.ID]; !ok {
		return utils.NewNotFoundError("Booking not found")
	}
	b.UpdatedAt = time.Now()
	r.Bookings[b.ID] = *b
	return nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Bookings[id]; !ok {
		return utils.NewNotFoundError("Booking not found")
	}
	delete(r.Bookings, id)
	return nil
}

func (r *BookingRepo) matching(f bookingRepo.BookingFilter) []models.Booking {
	var out []models.Booking
	for _, b := range r.Bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		if f.ServiceID != "" && !contains(b.Services, f.ServiceID) {
			continue
		}
		if f.SubserviceID != "" && !contains(b.Subservices, f.SubserviceID) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *BookingRepo) List(_ context.Context, f bookingRepo.BookingFilter, page models.PageRequest) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	all := r.matching(f)
	return paginate(all, page), int64(len(all)), nil
}

func (r *BookingRepo) CountForProvider(_ context.Context, providerID string, statuses []models.BookingStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.Bookings {
		if b.ProviderID != providerID {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *BookingRepo) StatusCountsForProvider(_ context.Context, providerID string) ([]models.BookingStatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.BookingStatus]int64{}
	for _, b := range r.Bookings {
		if b.ProviderID == providerID {
			counts[b.Status]++
		}
	}
	var out []models.BookingStatusCount
	for s, n := range counts {
		out = append(out, models.BookingStatusCount{Status: s, Count: n})
	}
	return out, nil
}

func (r *BookingRepo) EarningsForProvider(_ context.Context, providerID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, b := range r.Bookings {
		if b.ProviderID == providerID && b.Status == models.BookingCompleted {
			sum += b.FinalPrice
		}
	}
	return sum, nil
}

// ---- providers ----

type ProviderRepo struct {
	mu        sync.Mutex
	Providers map[string]models.ServiceProvider
	Err       error
	// StatsErr fails AddRating only.
	StatsErr error
}

var _ providerRepo.ProviderRepository = (*ProviderRepo)(nil)

func NewProviderRepo(providers ...models.ServiceProvider) *ProviderRepo {
	r := &ProviderRepo{Providers: map[string]models.ServiceProvider{}}
	for _, p := range providers {
		r.Providers[p.ID] = p
	}
	return r
}

func (r *ProviderRepo) Create(_ context.Context, p *models.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.Providers[p.ID] = *p
	return nil
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.Providers[id]
	if !ok {
		return nil, nil
	}
	return cloneProvider(p), nil
}

// cloneProvider copies the rating distribution so callers cannot mutate stored state.
func cloneProvider(p models.ServiceProvider) *models.ServiceProvider {
	if p.Rating.Distribution != nil {
		dist := make(map[string]int, len(p.Rating.Distribution))
		for k, v := range p.Rating.Distribution {
			dist[k] = v
		}
		p.Rating.Distribution = dist
	}
	return &p
}

// Update keeps the stored rating aggregate and creation time, like the Mongo repo.
func (r *ProviderRepo) Update(_ context.Context, p *models.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.Providers[p.ID]
	if !ok {
		return utils.NewNotFoundError("Service provider not found")
	}
	p.UpdatedAt = time.Now()
	next := *p
	next.Rating = stored.Rating
	next.CreatedAt = stored.CreatedAt
	r.Providers[p.ID] = next
	return nil
}

func (r *ProviderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Providers[id]; !ok {
		return utils.NewNotFoundError("Service provider not found")
	}
	delete(r.Providers, id)
	return nil
}

func (r *ProviderRepo) List(_ context.Context, f providerRepo.ProviderFilter, page models.PageRequest) ([]models.ServiceProvider, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceProvider
	for _, p := range r.Providers {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ServiceID != "" && !contains(p.Services, f.ServiceID) {
			continue
		}
		if f.SubserviceID != "" && !contains(p.Subservices, f.SubserviceID) {
			continue
		}
		if f.VerificationStatus == providerRepo.VerificationVerified && !p.DocumentsVerified() {
			continue
		}
		if f.VerificationStatus == providerRepo.VerificationPending && p.DocumentsVerified() {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Email+" "+p.PhoneNumber), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), int64(len(out)), nil
}

func (r *ProviderRepo) FindConflicts(_ context.Context, u providerRepo.UniqueFields, excludeID string) ([]models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceProvider
	for _, p := range r.Providers {
		if p.ID == excludeID {
			continue
		}
		if (u.PhoneNumber != "" && p.PhoneNumber == u.PhoneNumber) ||
			(u.Email != "" && p.Email == u.Email) ||
			(u.Aadhaar != "" && p.AadhaarCard.Number == u.Aadhaar) ||
			(u.PAN != "" && p.PanCard.Number == u.PAN) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProviderRepo) FindForMatching(_ context.Context, f providerRepo.MatchFilter) ([]models.ServiceProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceProvider
	for _, p := range r.Providers {
		if f.ActiveOnly && p.Status != models.ProviderActive {
			continue
		}
		if !p.CanHandle(f.Services, f.Subservices) {
			continue
		}
		if f.Day != "" && f.Time != "" && !p.IsAvailable(f.Day, f.Time) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProviderRepo) AddRating(_ context.Context, id string, stars int) (*models.RatingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.StatsErr != nil {
		return nil, r.StatsErr
	}
	p, ok := r.Providers[id]
	if !ok {
		return nil, nil
	}
	p = *cloneProvider(p)
	p.Rating.Add(stars)
	p.UpdatedAt = time.Now()
	r.Providers[id] = p
	stats := cloneProvider(p).Rating
	return &stats, nil
}
