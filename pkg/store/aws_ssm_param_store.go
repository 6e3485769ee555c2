package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/cockroachdb/errors"
)

// SSMStore is an implementation of the Store interface for AWS SSM Parameter
// Store.
type SSMStore struct {
	client       SSMClient
	prefix       string
	awsConfig    *aws.Config
	readRoleArn  *string
	writeRoleArn *string
	newSTSClient func(cfg aws.Config) STSClient
	newSSMClient func(cfg aws.Config) SSMClient
}

// SSMStoreOptions configures the SSM-backed store.
type SSMStoreOptions struct {
	Prefix       *string `mapstructure:"prefix"`
	Region       string  `mapstructure:"region"`
	ReadRoleArn  *string `mapstructure:"read_role_arn"`
	WriteRoleArn *string `mapstructure:"write_role_arn"`
}

// Ensure SSMStore implements the store.Store interface.
var _ Store = (*SSMStore)(nil)

// SSMClient interface allows us to mock the AWS SSM client.
type SSMClient interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// STSClient interface allows us to mock the AWS STS client.
type STSClient interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

var ErrRegionRequired = errors.New("region is required in aws-ssm-parameter store options")

// NewSSMStore initializes a new SSMStore.
func NewSSMStore(ctx context.Context, options SSMStoreOptions) (Store, error) {
	if options.Region == "" {
		return nil, ErrRegionRequired
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	awsConfig.Region = options.Region

	store := &SSMStore{
		client: ssm.NewFromConfig(awsConfig),
		newSTSClient: func(cfg aws.Config) STSClient {
			return sts.NewFromConfig(cfg)
		},
		newSSMClient: func(cfg aws.Config) SSMClient {
			return ssm.NewFromConfig(cfg)
		},
	}

	if options.Prefix != nil {
		store.prefix = *options.Prefix
	}
	store.awsConfig = &awsConfig
	store.readRoleArn = options.ReadRoleArn
	store.writeRoleArn = options.WriteRoleArn

	return store, nil
}

// paramName applies the configured prefix and ensures the name is /-rooted
// for SSM.
func (s *SSMStore) paramName(path string) string {
	name := s.prefix + path
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}

// assumeRole assumes the specified IAM role and returns a new AWS config.
func (s *SSMStore) assumeRole(ctx context.Context, roleArn *string) (*aws.Config, error) {
	if roleArn == nil {
		return s.awsConfig, nil
	}

	stsClient := s.newSTSClient(*s.awsConfig)
	result, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         roleArn,
		RoleSessionName: aws.String("cdk-factory-ssm-session"),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to assume role %s", *roleArn)
	}

	cfg := s.awsConfig.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		*result.Credentials.AccessKeyId,
		*result.Credentials.SecretAccessKey,
		*result.Credentials.SessionToken,
	)
	return &cfg, nil
}

// roleClient returns the SSM client to use for the given role, creating one
// with assumed-role credentials when a role is configured.
func (s *SSMStore) roleClient(ctx context.Context, roleArn *string) (SSMClient, error) {
	if roleArn == nil {
		return s.client, nil
	}
	cfg, err := s.assumeRole(ctx, roleArn)
	if err != nil {
		return nil, err
	}
	return s.newSSMClient(*cfg), nil
}

// Set stores a path-value pair in AWS SSM Parameter Store.
func (s *SSMStore) Set(ctx context.Context, path string, value any) error {
	if path == "" {
		return ErrEmptyPath
	}
	if value == nil {
		return errors.Wrapf(ErrNilValue, "path %s", path)
	}

	jsonValue, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize value for %s", path)
	}

	client, err := s.roleClient(ctx, s.writeRoleArn)
	if err != nil {
		return errors.Wrap(err, "failed to assume write role")
	}

	name := s.paramName(path)
	_, err = client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(string(jsonValue)),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to put parameter %s", name)
	}

	return nil
}

// Get retrieves a value by path from AWS SSM Parameter Store.
func (s *SSMStore) Get(ctx context.Context, path string) (any, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	client, err := s.roleClient(ctx, s.readRoleArn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to assume read role")
	}

	name := s.paramName(path)
	output, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(name),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return nil, errors.Wrapf(ErrNotFound, "path %s", name)
		}
		return nil, errors.Wrapf(err, "failed to get parameter %s", name)
	}

	// Try to unmarshal the value as JSON.
	var result any
	//nolint:nilerr // Non-JSON values written by 3rd parties are returned as raw strings.
	if err := json.Unmarshal([]byte(*output.Parameter.Value), &result); err != nil {
		return *output.Parameter.Value, nil
	}

	return result, nil
}
