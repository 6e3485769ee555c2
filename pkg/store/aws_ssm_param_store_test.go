package store

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSSMClient records calls and serves canned responses.
type mockSSMClient struct {
	params map[string]string
	puts   map[string]string
}

func newMockSSMClient() *mockSSMClient {
	return &mockSSMClient{
		params: map[string]string{},
		puts:   map[string]string{},
	}
}

func (m *mockSSMClient) GetParameter(ctx context.Context, input *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	value, ok := m.params[*input.Name]
	if !ok {
		return nil, &types.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Name: input.Name, Value: aws.String(value)},
	}, nil
}

func (m *mockSSMClient) PutParameter(ctx context.Context, input *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	m.puts[*input.Name] = *input.Value
	return &ssm.PutParameterOutput{}, nil
}

func newTestSSMStore(client SSMClient) *SSMStore {
	cfg := aws.Config{Region: "us-east-1"}
	return &SSMStore{
		client:    client,
		awsConfig: &cfg,
	}
}

func TestSSMStoreGetJSONValue(t *testing.T) {
	client := newMockSSMClient()
	client.params["/demo/dev/bucket/bucket_name"] = `"demo-dev-assets"`

	s := newTestSSMStore(client)
	value, err := s.Get(context.Background(), "/demo/dev/bucket/bucket_name")
	require.NoError(t, err)
	assert.Equal(t, "demo-dev-assets", value)
}

func TestSSMStoreGetRawStringFallback(t *testing.T) {
	client := newMockSSMClient()
	client.params["/legacy/param"] = "not json at all"

	s := newTestSSMStore(client)
	value, err := s.Get(context.Background(), "/legacy/param")
	require.NoError(t, err)
	assert.Equal(t, "not json at all", value)
}

func TestSSMStoreGetNotFound(t *testing.T) {
	s := newTestSSMStore(newMockSSMClient())

	_, err := s.Get(context.Background(), "/absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSSMStoreSetSerializesJSON(t *testing.T) {
	client := newMockSSMClient()
	s := newTestSSMStore(client)

	require.NoError(t, s.Set(context.Background(), "/demo/dev/bucket/bucket_name", "demo-dev-assets"))
	assert.Equal(t, `"demo-dev-assets"`, client.puts["/demo/dev/bucket/bucket_name"])
}

func TestSSMStorePrefixAndRooting(t *testing.T) {
	client := newMockSSMClient()
	client.params["/org/demo/param"] = `"v"`

	s := newTestSSMStore(client)
	s.prefix = "/org"

	value, err := s.Get(context.Background(), "/demo/param")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	// Unrooted paths are rooted before hitting SSM.
	s.prefix = ""
	client.params["/unrooted"] = `"w"`
	value, err = s.Get(context.Background(), "unrooted")
	require.NoError(t, err)
	assert.Equal(t, "w", value)
}

func TestNewSSMStoreRequiresRegion(t *testing.T) {
	_, err := NewSSMStore(context.Background(), SSMStoreOptions{})
	assert.ErrorIs(t, err, ErrRegionRequired)
}
