package serverutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/pkg/convo"
)

type sampleRequest struct {
	Role  string `validate:"required"`
	Query string `validate:"required,max=10"`
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(sampleRequest{Role: "Recruiter", Query: "hi"})
	assert.NoError(t, err)
}

func TestValidateRequestWrapsValidationError(t *testing.T) {
	err := ValidateRequest(sampleRequest{Query: "far too long for the cap"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, convo.ErrValidation))
	assert.Contains(t, err.Error(), "role")
	assert.Contains(t, err.Error(), "query")
}
