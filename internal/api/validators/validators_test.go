package validators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/langchain-flow/engine/internal/api/types"
)

func TestViolationsUseJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(&types.RegisterRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	violations := Violations(err)
	byField := map[string]string{}
	for _, fv := range violations {
		byField[fv.Field] = fv.Message
	}

	require.Equal(t, "username must be at least 3 characters", byField["username"])
	require.Equal(t, "email must be a valid email address", byField["email"])
	require.Equal(t, "password must be at least 8 characters", byField["password"])
}

func TestViolationsListsEveryFailedField(t *testing.T) {
	v := New()

	err := v.Struct(&types.RunCreateRequest{})
	require.Error(t, err)
	require.Len(t, Violations(err), 3) // projectId, name, triggerType
}

func TestValidRequestPasses(t *testing.T) {
	v := New()

	err := v.Struct(&types.RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "averylongpassword",
	})
	require.NoError(t, err)
}

func TestOneofMessages(t *testing.T) {
	v := New()

	err := v.Struct(&types.RunCreateRequest{
		ProjectID:   "8c3f9d1e-7f5b-4b7a-9f4e-2f1a6c8d9e0b",
		Name:        "nightly",
		TriggerType: "cron",
	})
	require.Error(t, err)

	violations := Violations(err)
	require.Len(t, violations, 1)
	require.Equal(t, "triggerType", violations[0].Field)
	require.Equal(t, "triggerType must be one of: manual, webhook, scheduled", violations[0].Message)
}
