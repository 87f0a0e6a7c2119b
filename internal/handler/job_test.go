package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hirewise/hirewise/internal/auth"
	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestOwnsJob(t *testing.T) {
	owner := uuid.New()
	job := &model.Job{ID: uuid.New(), PostedBy: owner}

	tests := []struct {
		name   string
		claims *auth.Claims
		job    *model.Job
		want   bool
	}{
		{"posting recruiter", &auth.Claims{RecruiterID: owner}, job, true},
		{"different recruiter", &auth.Claims{RecruiterID: uuid.New()}, job, false},
		{"no claims", nil, job, false},
		{"no job", &auth.Claims{RecruiterID: owner}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ownsJob(tt.claims, tt.job))
		})
	}
}
