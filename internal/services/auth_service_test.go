package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/pkg"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a student account and issues a token", func(t *testing.T) {
		f := newTestFixture(t)

		resp, err := f.auth.Signup(ctx, &models.SignupRequest{
			Name:  "Nadia",
			Email: "Nadia@Example.com",
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if resp.User.Role != models.RoleStudent {
			t.Errorf("expected student role, got %s", resp.User.Role)
		}
		if resp.User.Email != "nadia@example.com" {
			t.Errorf("expected normalized email, got %s", resp.User.Email)
		}

		claims, err := pkg.ValidateToken(resp.Token, "test-secret")
		if err != nil {
			t.Fatalf("issued token did not validate: %v", err)
		}
		if claims.UserID != resp.User.ID {
			t.Errorf("token user_id %s does not match user %s", claims.UserID, resp.User.ID)
		}
		if claims.Role != string(models.RoleStudent) {
			t.Errorf("token role %s, want student", claims.Role)
		}
	})

	t.Run("rejects the reserved admin email", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.auth.Signup(ctx, &models.SignupRequest{
			Name:  "Impostor",
			Email: "affankhawaja2@gmail.com",
		})
		if !errors.Is(err, ErrEmailReserved) {
			t.Errorf("expected ErrEmailReserved, got %v", err)
		}
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.auth.Signup(ctx, &models.SignupRequest{
			Name:  "Duplicate",
			Email: f.student.Email,
		})
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.auth.Signup(ctx, &models.SignupRequest{
			Name:  "Broken",
			Email: "not-an-email",
		})
		if err == nil {
			t.Fatal("expected validation error for malformed email")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("password-less students log in by email alone", func(t *testing.T) {
		f := newTestFixture(t)

		resp, err := f.auth.Login(ctx, &models.LoginRequest{Email: f.student.Email})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.User.ID != f.student.ID {
			t.Errorf("expected user %s, got %s", f.student.ID, resp.User.ID)
		}
	})

	t.Run("accounts with a password require it", func(t *testing.T) {
		f := newTestFixture(t)

		signup, err := f.auth.Signup(ctx, &models.SignupRequest{
			Name:     "Secure",
			Email:    "secure@example.com",
			Password: "hunter2",
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}

		if _, err := f.auth.Login(ctx, &models.LoginRequest{Email: "secure@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
		}
		if _, err := f.auth.Login(ctx, &models.LoginRequest{Email: "secure@example.com"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for missing password, got %v", err)
		}

		resp, err := f.auth.Login(ctx, &models.LoginRequest{Email: "secure@example.com", Password: "hunter2"})
		if err != nil {
			t.Fatalf("Login with correct password failed: %v", err)
		}
		if resp.User.ID != signup.User.ID {
			t.Errorf("expected user %s, got %s", signup.User.ID, resp.User.ID)
		}
	})

	t.Run("unknown email reports user not found", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.auth.Login(ctx, &models.LoginRequest{Email: "ghost@example.com"})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthSeed(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)

	if err := f.auth.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	resp, err := f.auth.Login(ctx, &models.LoginRequest{
		Email:    "affankhawaja2@gmail.com",
		Password: "affan",
	})
	if err != nil {
		t.Fatalf("admin login after seed failed: %v", err)
	}
	if resp.User.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", resp.User.Role)
	}

	// Seeding again does not create a second account.
	if err := f.auth.Seed(ctx); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if _, err := f.auth.Login(ctx, &models.LoginRequest{Email: "affankhawaja2@gmail.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected the seeded password to be enforced, got %v", err)
	}
}

func TestListStudents(t *testing.T) {
	ctx := context.Background()

	f := newTestFixture(t)
	f.addStudent(t, "student-2", "Riley", "riley@example.com")

	students, total, err := f.auth.ListStudents(ctx, repositories.UserFilters{})
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 students, got %d", total)
	}
	for _, student := range students {
		if student.Role != models.RoleStudent {
			t.Errorf("expected only students, got %s for %s", student.Role, student.ID)
		}
	}
}
