package user

// Principal is the authenticated caller of a user route.
type Principal struct {
	UserID string
	Email  string
}
