// Package account tracks the login session and the admin user list.
package account

import "github.com/lepinkainen/shelf/internal/catalog"

// User is a registered catalog user.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// State mirrors the progress of login, registration and user loading.
// Like catalog.State it has no locking and needs a single owner.
type State struct {
	LoggingIn   bool
	Registering bool
	LoggedIn    bool
	Loading     bool
	Loaded      bool
	Users       []User
	Err         *catalog.Failure
}

// StartLogin records a login attempt.
func (s *State) StartLogin() {
	s.LoggingIn = true
}

// LoginSucceeded marks the session as logged in.
func (s *State) LoginSucceeded() {
	s.LoggingIn = false
	s.LoggedIn = true
	s.Err = nil
}

// LoginFailed records the failure.
func (s *State) LoginFailed(err error) {
	s.LoggingIn = false
	s.Err = catalog.NewFailure("login", err)
}

// StartRegistration records a registration attempt.
func (s *State) StartRegistration() {
	s.Registering = true
}

// RegistrationSucceeded marks the new account as logged in.
func (s *State) RegistrationSucceeded() {
	s.Registering = false
	s.LoggedIn = true
	s.Err = nil
}

// RegistrationFailed records the failure.
func (s *State) RegistrationFailed(err error) {
	s.Registering = false
	s.Err = catalog.NewFailure("register", err)
}

// StartLoadingUsers records a user list request.
func (s *State) StartLoadingUsers() {
	s.Loading = true
	s.Loaded = false
}

// UsersLoaded stores the user list.
func (s *State) UsersLoaded(users []User) {
	s.Loading = false
	s.Loaded = true
	s.Users = append([]User(nil), users...)
	s.Err = nil
}

// LoadingUsersFailed records the failure.
func (s *State) LoadingUsersFailed(err error) {
	s.Loading = false
	s.Loaded = false
	s.Err = catalog.NewFailure("load users", err)
}

// Clone returns a deep copy.
func (s *State) Clone() State {
	out := *s
	out.Users = append([]User(nil), s.Users...)
	if s.Err != nil {
		f := *s.Err
		out.Err = &f
	}
	return out
}
