package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// validationService builds a service with no backing stores; only paths that
// reject input before reaching the repository may be exercised
func validationService() *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(nil, logger, nil, nil, nil, nil, nil)
}

func TestUpdateProfileRejectsOverlongNames(t *testing.T) {
	svc := validationService()
	long := strings.Repeat("x", maxNameLen+1)

	tests := []struct {
		name      string
		firstName string
		lastName  string
	}{
		{"long first name", long, "Doe"},
		{"long last name", "Jane", long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), 1, tt.firstName, tt.lastName)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestProfileCacheKeyPerUser(t *testing.T) {
	if profileCacheKey(1) == profileCacheKey(2) {
		t.Error("profile cache keys must differ per user")
	}
}
