package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/models"
)

func TestDefaultFixtures(t *testing.T) {
	f := DefaultFixtures()

	require.Len(t, f.Blacklist, 4)
	assert.Equal(t, "DOC001", f.Blacklist[0].ID)
	assert.Equal(t, "John Smith", f.Blacklist[0].StudentName)
	assert.Equal(t, models.StatusConfirmedFraud, f.Blacklist[0].Status)
	assert.Equal(t, 95, f.Blacklist[0].Confidence)
	assert.Equal(t, models.StatusPendingInvestigation, f.Blacklist[3].Status)

	require.Len(t, f.Approvals, 3)
	assert.Equal(t, "REQ003", f.Approvals[2].ID)
	assert.Equal(t, "NIT Jamshedpur", f.Approvals[2].InstitutionName)
	assert.Equal(t, "+91 657 237 4205", f.Approvals[2].Phone)

	require.Contains(t, f.Dashboards, "institution")
	require.Contains(t, f.Dashboards, "verifier")
	assert.Equal(t, "12,457", f.Dashboards["institution"].Stats[0].Value)
	assert.Len(t, f.Dashboards["verifier"].RecentVerifications, 3)
}

func TestParseFixtures_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "blacklist: [unclosed"},
		{"unknown status", "blacklist:\n  - id: X\n    status: Maybe Fraud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
