package testing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/pactkit/pkg/interaction"
	"github.com/getmockd/pactkit/pkg/matcher"
	"github.com/getmockd/pactkit/pkg/pactjson"
	"github.com/getmockd/pactkit/pkg/serviceclient"
)

func alligatorInteraction() interaction.Interaction {
	return interaction.Interaction{
		Description:   "a request for an alligator",
		ProviderState: "there is an alligator named Mary",
		Request: interaction.Request{
			Method: interaction.GET,
			Path:   pactjson.String("/alligators/Mary"),
		},
		Response: interaction.Response{
			Status:  200,
			Headers: pactjson.Headers{"Content-Type": pactjson.String("application/json")},
			Body: pactjson.Object{
				"name": matcher.Like(pactjson.String("Mary")),
			},
		},
	}
}

func TestMockService_ReplayVerifyWrite(t *testing.T) {
	dir := t.TempDir()
	fake := NewMockService(WithPactDir(dir))
	defer fake.Close()

	ctx := context.Background()
	client := serviceclient.NewMockService(fake.URL())
	require.NoError(t, client.RegisterInteraction(ctx, alligatorInteraction()))
	require.Len(t, fake.Interactions(), 1)

	ok, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "unexercised interaction must not verify")

	resp, err := http.Get(fake.URL() + "/alligators/Mary")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Mary"}`, string(body))

	ok, err = client.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, client.WritePact(ctx, "Zoo App", "Animal Service", ""))
	require.Equal(t, []string{filepath.Join(dir, "zoo_app-animal_service.json")}, fake.PactFiles())

	data, err := os.ReadFile(fake.PactFiles()[0])
	require.NoError(t, err)
	var pact map[string]any
	require.NoError(t, json.Unmarshal(data, &pact))
	assert.Equal(t, map[string]any{"name": "Zoo App"}, pact["consumer"])
	interactions := pact["interactions"].([]any)
	require.Len(t, interactions, 1)
	first := interactions[0].(map[string]any)
	assert.Equal(t, "there is an alligator named Mary", first["providerState"])
	assert.Equal(t, map[string]any{"name": "Mary"}, first["response"].(map[string]any)["body"])
}

func TestMockService_UnexpectedRequestFailsVerification(t *testing.T) {
	fake := NewMockService()
	defer fake.Close()

	ctx := context.Background()
	client := serviceclient.NewMockService(fake.URL())
	require.NoError(t, client.RegisterInteractions(ctx, nil))

	resp, err := http.Get(fake.URL() + "/nothing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	ok, err := client.Verify(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMockService_CleanAndClose(t *testing.T) {
	fake := NewMockService()
	defer fake.Close()

	ctx := context.Background()
	client := serviceclient.NewMockService(fake.URL())
	require.NoError(t, client.RegisterInteraction(ctx, alligatorInteraction()))
	require.NoError(t, client.CleanInteractions(ctx))
	assert.Empty(t, fake.Interactions())

	require.NoError(t, client.CloseSession(ctx))
	assert.True(t, fake.SessionClosed())
	assert.Equal(t, 3, fake.AdminCalls())

	err := client.CleanInteractions(ctx)
	var statusErr *serviceclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestMockService_RejectsIncompleteInteraction(t *testing.T) {
	fake := NewMockService()
	defer fake.Close()

	tests := []struct {
		name string
		body string
	}{
		{"no request", `{"interactions":[{"description":"x"}]}`},
		{"no path", `{"interactions":[{"description":"x","request":{"method":"GET"},"response":{"status":200}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPut, fake.URL()+"/interactions", strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set(serviceclient.HeaderMockService, "true")
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, fake.Interactions())
}

func TestControlServer_AllocatesMockServices(t *testing.T) {
	control := NewControlServer(t.TempDir())
	defer control.Close()

	ctx := context.Background()
	client := serviceclient.NewControlService(control.URL())

	first, err := client.Start(ctx, "Zoo App", "Animal Service")
	require.NoError(t, err)
	second, err := client.Start(ctx, "Zoo App", "Animal Service")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, control.MockServices(), 2)
	assert.Equal(t, second, control.MockServiceFor("Zoo App", "Animal Service").URL())
	assert.Nil(t, control.MockServiceFor("Zoo App", "Nobody"))

	control.SetOmitLocation(true)
	_, err = client.Start(ctx, "Zoo App", "Animal Service")
	assert.ErrorIs(t, err, serviceclient.ErrMissingLocation)
}
