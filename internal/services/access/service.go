package access

import "github.com/mcoot/playerauction-go/internal/model"

// Service gates privileged operations behind a single administrative
// account. The admin is fixed at construction; there is no transfer of
// ownership.
type Service struct {
	admin model.Account
}

// New creates a new access control service for the given admin account
func New(admin model.Account) *Service {
	return &Service{admin: admin}
}

// Admin returns the configured admin account
func (s *Service) Admin() model.Account {
	return s.admin
}

// IsAdmin reports whether the account is the configured admin
func (s *Service) IsAdmin(account model.Account) bool {
	return account == s.admin
}

// Require returns nil if the account is the admin, otherwise a
// not-authorized error
func (s *Service) Require(account model.Account) error {
	if !s.IsAdmin(account) {
		return model.ErrNotAuthorized
	}
	return nil
}
