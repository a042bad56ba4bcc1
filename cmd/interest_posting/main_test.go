package main

import (
	"testing"

	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		opts    options
		wantErr string
	}{
		{"single account", options{accountID: "acc-1"}, ""},
		{"single account preview", options{accountID: "acc-1", dryRun: true}, ""},
		{"all accounts", options{all: true}, ""},
		{"neither", options{}, "exactly one"},
		{"both", options{accountID: "acc-1", all: true}, "exactly one"},
		{"preview all", options{all: true, dryRun: true}, "--dry-run"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestPostingRequestFromFlags(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts)
	require.NoError(t, fs.Parse([]string{"--account", "acc-1", "--up-to", "2024-03-31", "--as-on", "2024-03-15", "--interest-transfer"}))

	req, err := opts.postingRequest()
	require.NoError(t, err)
	require.NotNil(t, req.UpToDate)
	require.NotNil(t, req.PostAsOn)
	assert.Equal(t, dates.Date(2024, 3, 31), *req.UpToDate)
	assert.Equal(t, dates.Date(2024, 3, 15), *req.PostAsOn)
	assert.True(t, req.InterestTransfer)
	assert.Equal(t, "system", opts.userID)
}

func TestPostingRequestRejectsBadDates(t *testing.T) {
	_, err := options{accountID: "acc-1", upTo: "31/03/2024"}.postingRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--up-to")
}
