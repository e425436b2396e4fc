package mocks

import "github.com/you/coursegate/domain"

// MockPasswordService is a reversible stand-in for bcrypt. Hash prefixes the
// password, so tests can read back which password an account holds.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	// Hashed lists every password passed to Hash, in call order
	Hashed []string
}

// NewMockPasswordService creates a new MockPasswordService
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash records the password and returns "hashed_" + password
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.Hashed = append(m.Hashed, password)
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify matches only hashes produced by Hash, so placeholder credentials never verify
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

var _ domain.PasswordService = (*MockPasswordService)(nil)
