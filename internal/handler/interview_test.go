package handler

import (
	"testing"

	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestEmailDataForVerdict(t *testing.T) {
	app := &model.Application{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Job:       &model.Job{Title: "Backend Engineer"},
	}

	t.Run("pass moves the candidate to review", func(t *testing.T) {
		data := emailDataForVerdict(app, "Acme", true)
		assert.Equal(t, model.ApplicationReviewing, data.Status)
		assert.Equal(t, "Ada Lovelace", data.CandidateName)
		assert.Equal(t, "Backend Engineer", data.JobTitle)
		assert.Equal(t, "Acme", data.CompanyName)
	})

	t.Run("fail sends the rejection notice", func(t *testing.T) {
		data := emailDataForVerdict(app, "Acme", false)
		assert.Equal(t, model.ApplicationRejected, data.Status)
	})
}
