// internal/adapters/dynamo/dynamo.go
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Config holds DynamoDB configuration
type Config struct {
	Region          string
	Table           string
	MaterialIndex   string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For dynamodb-local
	ConnectTimeout  time.Duration
}

// DefaultConfig returns default DynamoDB configuration
func DefaultConfig() *Config {
	return &Config{
		Region:         "us-east-1",
		Table:          "joyeria-items",
		MaterialIndex:  "byMaterial",
		ConnectTimeout: 10 * time.Second,
	}
}

// Client wraps the DynamoDB client together with the table topology
type Client struct {
	db     *dynamodb.Client
	config *Config
	logger *slog.Logger
}

// NewClient creates a new DynamoDB client and verifies connectivity
func NewClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	db := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	client := &Client{
		db:     db,
		config: cfg,
		logger: logger,
	}

	logger.Info("dynamodb client configured",
		slog.String("table", cfg.Table),
		slog.String("region", cfg.Region),
	)

	return client, nil
}

// buildAWSConfig builds AWS configuration
func buildAWSConfig(ctx context.Context, cfg *Config) (aws.Config, error) {
	// Use custom credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}

	// Otherwise use default credential chain
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

// DB returns the underlying DynamoDB client
func (c *Client) DB() *dynamodb.Client {
	return c.db
}

// Table returns the item table name
func (c *Client) Table() string {
	return c.config.Table
}

// MaterialIndex returns the name of the material GSI
func (c *Client) MaterialIndex() string {
	return c.config.MaterialIndex
}

// Ping verifies table connectivity with a minimal read
func (c *Client) Ping(ctx context.Context) error {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}
	_, err := c.db.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.config.Table),
		Limit:     aws.Int32(1),
		Select:    types.SelectCount,
	})
	return err
}

// EnsureTable creates the item table and the material index when they do
// not exist yet. Used by the seeder and the local development setup;
// production tables are provisioned out of band.
func (c *Client) EnsureTable(ctx context.Context) error {
	_, err := c.db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.config.Table),
	})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table %s: %w", c.config.Table, err)
	}

	_, err = c.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(c.config.Table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("tipoMaterial"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(c.config.MaterialIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("tipoMaterial"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", c.config.Table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(c.db)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.config.Table),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("table %s did not become active: %w", c.config.Table, err)
	}

	c.logger.Info("dynamodb table created",
		slog.String("table", c.config.Table),
		slog.String("index", c.config.MaterialIndex))

	return nil
}
