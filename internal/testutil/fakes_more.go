package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	ratingRepo "homeserve/database/repository/rating"
	"homeserve/models"
	"homeserve/utils"
)

// ---- ratings ----

type ratingReview = ratingRepo.Review

type RatingRepo struct {
	mu      sync.Mutex
	Ratings map[string]models.Rating
	Err     error
	// ClaimErr fails ClaimForAggregation only.
	ClaimErr error
}

func NewRatingRepo(ratings ...models.Rating) *RatingRepo {
	r := &RatingRepo{Ratings: map[string]models.Rating{}}
	for _, rt := range ratings {
		r.Ratings[rt.ID] = rt
	}
	return r
}

func (r *RatingRepo) CreateMany(_ context.Context, ratings []models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, n := range ratings {
		for _, existing := range r.Ratings {
			if existing.BookingID == n.BookingID && existing.SubserviceID == n.SubserviceID {
				return utils.NewConflictError("Rating already exists for this booking")
			}
		}
	}
	now := time.Now()
	for i := range ratings {
		ratings[i].CreatedAt = now
		ratings[i].UpdatedAt = now
		r.Ratings[ratings[i].ID] = ratings[i]
	}
	return nil
}

func (r *RatingRepo) GetByID(_ context.Context, id string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rt, ok := r.Ratings[id]
	if !ok {
		return nil, nil
	}
	return &rt, nil
}

func (r *RatingRepo) ExistsForBooking(_ context.Context, bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.Ratings {
		if rt.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *RatingRepo) ApplyReview(_ context.Context, id string, rv ratingReview) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rt, ok := r.Ratings[id]
	if !ok || rt.Status == models.RatingApproved {
		return nil, nil
	}
	at := rv.At
	rt.Status = rv.Status
	rt.ReviewedBy = rv.AdminID
	rt.ReviewedAt = &at
	rt.ReviewNote = rv.Note
	rt.UpdatedAt = at
	r.Ratings[id] = rt
	return &rt, nil
}

func (r *RatingRepo) UpdatePending(_ context.Context, id, userID string, stars int, feedback string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	rt, ok := r.Ratings[id]
	if !ok || rt.UserID != userID || rt.Status != models.RatingPending {
		return nil, nil
	}
	rt.Rating = stars
	rt.Feedback = feedback
	rt.UpdatedAt = time.Now()
	r.Ratings[id] = rt
	return &rt, nil
}

func (r *RatingRepo) DeletePending(_ context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.Ratings[id]
	if !ok || rt.UserID != userID || rt.Status != models.RatingPending {
		return false, nil
	}
	delete(r.Ratings, id)
	return true, nil
}

func (r *RatingRepo) sorted(keep func(models.Rating) bool) []models.Rating {
	var out []models.Rating
	for _, rt := range r.Ratings {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *RatingRepo) List(_ context.Context, f ratingFilter, page models.PageRequest) ([]models.Rating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(rt models.Rating) bool {
		return (f.UserID == "" || rt.UserID == f.UserID) &&
			(f.BookingID == "" || rt.BookingID == f.BookingID) &&
			(f.ProviderID == "" || rt.ProviderID == f.ProviderID) &&
			(f.SubserviceID == "" || rt.SubserviceID == f.SubserviceID) &&
			(f.Status == "" || rt.Status == f.Status)
	})
	return paginate(all, page), int64(len(all)), nil
}

func (r *RatingRepo) ApprovedStarCounts(_ context.Context, subserviceID string) ([]models.StarCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		sub   string
		stars int
	}
	counts := map[key]int{}
	for _, rt := range r.Ratings {
		if rt.Status != models.RatingApproved {
			continue
		}
		if subserviceID != "" && rt.SubserviceID != subserviceID {
			continue
		}
		counts[key{rt.SubserviceID, rt.Rating}]++
	}
	var out []models.StarCount
	for k, n := range counts {
		out = append(out, models.StarCount{SubserviceID: k.sub, Stars: k.stars, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubserviceID == out[j].SubserviceID {
			return out[i].Stars < out[j].Stars
		}
		return out[i].SubserviceID < out[j].SubserviceID
	})
	return out, nil
}

func (r *RatingRepo) ClaimForAggregation(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ClaimErr != nil {
		return false, r.ClaimErr
	}
	rt, ok := r.Ratings[id]
	if !ok || rt.Status != models.RatingApproved || rt.Aggregated {
		return false, nil
	}
	rt.Aggregated = true
	rt.AggregatedAt = &at
	r.Ratings[id] = rt
	return true, nil
}

// Unclaim reverts a claim. Used by TxRecorder to emulate a rolled back transaction.
func (r *RatingRepo) Unclaim(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.Ratings[id]; ok {
		rt.Aggregated = false
		rt.AggregatedAt = nil
		r.Ratings[id] = rt
	}
}

func (r *RatingRepo) ListUnaggregated(_ context.Context, limit int) ([]models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(rt models.Rating) bool { return rt.Status == models.RatingApproved && !rt.Aggregated })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *RatingRepo) CountUnaggregated(ctx context.Context) (int64, error) {
	all, err := r.ListUnaggregated(ctx, 0)
	return int64(len(all)), err
}

// ---- catalog ----

type CatalogRepo struct {
	mu          sync.Mutex
	Services    map[string]models.Service
	Subservices map[string]models.Subservice
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{Services: map[string]models.Service{}, Subservices: map[string]models.Subservice{}}
}

// WithService adds a service and returns the repo for chaining.
func (r *CatalogRepo) WithService(id, name string) *CatalogRepo {
	r.Services[id] = models.Service{ID: id, Name: name}
	return r
}

// WithSubservice adds a subservice under serviceID.
func (r *CatalogRepo) WithSubservice(id, serviceID, name string) *CatalogRepo {
	r.Subservices[id] = models.Subservice{ID: id, ServiceID: serviceID, Name: name}
	return r
}

func (r *CatalogRepo) CreateService(_ context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Services[s.ID] = *s
	return nil
}

func (r *CatalogRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *CatalogRepo) UpdateService(_ context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Services[s.ID]; !ok {
		return utils.NewNotFoundError("Service not found")
	}
	r.Services[s.ID] = *s
	return nil
}

func (r *CatalogRepo) DeleteService(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Services[id]; !ok {
		return utils.NewNotFoundError("Service not found")
	}
	delete(r.Services, id)
	return nil
}

func (r *CatalogRepo) ListServices(_ context.Context, search string, page models.PageRequest) ([]models.Service, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.Services {
		if search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, page), int64(len(out)), nil
}

func (r *CatalogRepo) FindServicesByIDs(_ context.Context, ids []string) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.Services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *CatalogRepo) CreateSubservice(_ context.Context, s *models.Subservice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Subservices[s.ID] = *s
	return nil
}

func (r *CatalogRepo) GetSubservice(_ context.Context, id string) (*models.Subservice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Subservices[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *CatalogRepo) UpdateSubservice(_ context.Context, s *models.Subservice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Subservices[s.ID]; !ok {
		return utils.NewNotFoundError("Subservice not found")
	}
	r.Subservices[s.ID] = *s
	return nil
}

func (r *CatalogRepo) DeleteSubservice(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Subservices[id]; !ok {
		return utils.NewNotFoundError("Subservice not found")
	}
	delete(r.Subservices, id)
	return nil
}

func (r *CatalogRepo) ListSubservices(_ context.Context, serviceID string, page models.PageRequest) ([]models.Subservice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Subservice
	for _, s := range r.Subservices {
		if serviceID == "" || s.ServiceID == serviceID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, page), int64(len(out)), nil
}

func (r *CatalogRepo) FindSubservicesByIDs(_ context.Context, ids []string) ([]models.Subservice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Subservice
	for _, id := range ids {
		if s, ok := r.Subservices[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// ---- addresses ----

type AddressRepo struct {
	mu        sync.Mutex
	Addresses map[string]models.Address
}

func NewAddressRepo(addresses ...models.Address) *AddressRepo {
	r := &AddressRepo{Addresses: map[string]models.Address{}}
	for _, a := range addresses {
		r.Addresses[a.ID] = a
	}
	return r
}

func (r *AddressRepo) Create(_ context.Context, a *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Addresses[a.ID] = *a
	return nil
}

func (r *AddressRepo) GetByID(_ context.Context, id string) (*models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AddressRepo) ListForUser(_ context.Context, userID string, page models.PageRequest) ([]models.Address, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Address
	for _, a := range r.Addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), int64(len(out)), nil
}

func (r *AddressRepo) Update(_ context.Context, a *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Addresses[a.ID]
	if !ok || existing.UserID != a.UserID {
		return utils.NewNotFoundError("Address not found")
	}
	r.Addresses[a.ID] = *a
	return nil
}

func (r *AddressRepo) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Addresses[id]
	if !ok || existing.UserID != userID {
		return utils.NewNotFoundError("Address not found")
	}
	delete(r.Addresses, id)
	return nil
}

// ---- users ----

type UserRepo struct {
	mu    sync.Mutex
	Users map[string]models.User
}

func NewUserRepo(users ...models.User) *UserRepo {
	r := &UserRepo{Users: map[string]models.User{}}
	for _, u := range users {
		r.Users[u.ID] = u
	}
	return r
}

func (r *UserRepo) find(match func(models.User) bool) *models.User {
	for _, u := range r.Users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u models.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(u models.User) bool { return u.PhoneNumber == phone }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	return r.find(func(u models.User) bool { return email != "" && u.Email == email }), nil
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	if u.Email != "" && r.find(func(e models.User) bool { return e.Email == u.Email }) != nil {
		return utils.NewConflictError("Email already registered")
	}
	if u.PhoneNumber != "" && r.find(func(e models.User) bool { return e.PhoneNumber == u.PhoneNumber }) != nil {
		return utils.NewConflictError("Phone number already registered")
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.Users[u.ID] = *u
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[u.ID]; !ok {
		return utils.NewNotFoundError("User not found")
	}
	u.Email = strings.ToLower(u.Email)
	u.UpdatedAt = time.Now()
	r.Users[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[id]; !ok {
		return utils.NewNotFoundError("User not found")
	}
	delete(r.Users, id)
	return nil
}

func (r *UserRepo) ListByRole(_ context.Context, role string, page models.PageRequest) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.Users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), int64(len(out)), nil
}
