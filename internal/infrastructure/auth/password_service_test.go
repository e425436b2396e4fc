package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordServiceImpl(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("expected hash to differ from the password")
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"matching password", hash, "correct horse", true},
		{"wrong password", hash, "battery staple", false},
		{"empty password", hash, "", false},
		{"placeholder hash never verifies", "!unset", "correct horse", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Verify(tt.hash, tt.password); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewPasswordService_CostOutOfRange(t *testing.T) {
	svc := NewPasswordService(0).(*PasswordServiceImpl)
	if svc.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", svc.cost)
	}
}
