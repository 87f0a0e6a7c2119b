package email

import (
	"testing"
	"time"

	"github.com/hirewise/hirewise/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceived(t *testing.T) {
	deadline := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("with interview link", func(t *testing.T) {
		subject, html, err := Render(TemplateData{
			Status:        StatusReceived,
			CandidateName: "Ada Lovelace",
			JobTitle:      "Backend Engineer",
			CompanyName:   "Acme",
			InterviewLink: "https://careers.acme.test/interview/abc123",
			Deadline:      deadline,
		})
		require.NoError(t, err)

		assert.Equal(t, "Application Received - Backend Engineer", subject)
		assert.Contains(t, html, "Ada Lovelace")
		assert.Contains(t, html, "https://careers.acme.test/interview/abc123")
		assert.Contains(t, html, "Mar 4, 2026")
		assert.Contains(t, html, "Start Interview")
	})

	t.Run("without interview link", func(t *testing.T) {
		_, html, err := Render(TemplateData{
			Status:        StatusReceived,
			CandidateName: "Ada Lovelace",
			JobTitle:      "Backend Engineer",
			CompanyName:   "Acme",
		})
		require.NoError(t, err)

		assert.NotContains(t, html, "Start Interview")
		assert.Contains(t, html, "3-5 business days")
	})
}

func TestRenderStatuses(t *testing.T) {
	statuses := []model.ApplicationStatus{
		model.ApplicationReviewing,
		model.ApplicationShortlisted,
		model.ApplicationInterviewScheduled,
		model.ApplicationRejected,
		model.ApplicationHired,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			subject, html, err := Render(TemplateData{
				Status:        status,
				CandidateName: "Ada Lovelace",
				JobTitle:      "Backend Engineer",
				CompanyName:   "Acme",
			})
			require.NoError(t, err)
			assert.Contains(t, subject, "Backend Engineer")
			assert.Contains(t, html, "Ada Lovelace")
			assert.Contains(t, html, "Acme")
		})
	}
}

func TestRenderRejectedCustomMessage(t *testing.T) {
	_, html, err := Render(TemplateData{
		Status:        model.ApplicationRejected,
		CandidateName: "Ada Lovelace",
		JobTitle:      "Backend Engineer",
		CompanyName:   "Acme",
		Message:       "We went with a candidate closer to our timezone.",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "closer to our timezone")
	assert.NotContains(t, html, "move forward with other candidates")
}

func TestRenderUnknownStatus(t *testing.T) {
	_, _, err := Render(TemplateData{Status: model.ApplicationPending})
	assert.Error(t, err)

	assert.False(t, HasTemplate(model.ApplicationPending))
	assert.True(t, HasTemplate(StatusReceived))
	assert.True(t, HasTemplate(model.ApplicationHired))
}
