package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/cryptid/pkg/util"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name    string
		req     SignUpRequest
		invalid []string
	}{
		{name: "ok", req: SignUpRequest{Name: " dracula ", Password: "pw"}},
		{name: "blank name", req: SignUpRequest{Name: "   ", Password: "pw"}, invalid: []string{"name"}},
		{name: "reserved name", req: SignUpRequest{Name: " me", Password: "pw"}, invalid: []string{"name"}},
		{name: "blank password", req: SignUpRequest{Name: "renfield", Password: " "}, invalid: []string{"password"}},
		{name: "empty role", req: SignUpRequest{Name: "renfield", Password: "pw", Roles: []string{"user", ""}}, invalid: []string{"roles[1]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := Validate(&req)
			if len(tt.invalid) == 0 {
				require.NoError(t, err)
				assert.Equal(t, "dracula", req.Name)
				return
			}
			domainErr := apperrors.ToDomainError(err)
			require.NotNil(t, domainErr)
			assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
			for _, field := range tt.invalid {
				assert.Contains(t, domainErr.Details, field)
			}
		})
	}
}

func TestValidateExplorerPatchTrimsName(t *testing.T) {
	blank := "  "
	err := Validate(&ExplorerPatchRequest{Name: &blank})
	require.Error(t, err)

	name := "  Claude Hande "
	req := ExplorerPatchRequest{Name: &name}
	require.NoError(t, Validate(&req))
	assert.Equal(t, "Claude Hande", *req.Name)

	require.NoError(t, Validate(&ExplorerPatchRequest{}))
}

func TestValidateCreatureRequiresFields(t *testing.T) {
	err := Validate(&CreatureRequest{Name: "yeti"})
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Contains(t, domainErr.Details, "country")
	assert.Contains(t, domainErr.Details, "area")
	assert.NotContains(t, domainErr.Details, "description")
}
