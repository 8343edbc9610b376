package handlers

// HandlerBundle groups the handlers the router mounts.
type HandlerBundle struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Addresses *AddressHandler
	Catalog   *CatalogHandler
	Bookings  *BookingHandler
	Ratings   *RatingHandler
	Providers *ProviderHandler
}
