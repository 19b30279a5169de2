package database

import (
	"context"
	"errors"
	"testing"

	"mystery_boxes/internal/config"
	"mystery_boxes/internal/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	created []string
	errs    map[string]error
}

func (f *fakeCreator) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	name := aws.ToString(in.TableName)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	f.created = append(f.created, name)
	return &dynamodb.CreateTableOutput{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestEnsureTables(t *testing.T) {
	f := &fakeCreator{errs: map[string]error{
		"boxes": &types.ResourceInUseException{Message: aws.String("exists")},
	}}
	require.NoError(t, EnsureTables(context.Background(), f, testConfig(), logging.Nop()))
	assert.Equal(t, []string{"settings", "payment_attempts"}, f.created)
}

func TestEnsureTables_Error(t *testing.T) {
	f := &fakeCreator{errs: map[string]error{"settings": errors.New("access denied")}}
	err := EnsureTables(context.Background(), f, testConfig(), logging.Nop())
	assert.ErrorContains(t, err, "create table settings")
}

func TestNewDynamoDBConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AWSRegion = "sa-east-1"
	cfg.DynamoDBEndpoint = "http://localhost:8000"

	awsCfg, err := NewDynamoDBConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "sa-east-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, creds.AccessKeyID)
}
