package imagestore

import (
	"context"
	"fmt"

	"product-admin/database"
	awspkg "product-admin/pkg/aws"
)

// Drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverDynamoDB = "dynamodb"
)

// FactoryConfig selects and configures a driver.
type FactoryConfig struct {
	Driver      string
	RedisURL    string
	DynamoTable string
}

// FactoryResult is the constructed store plus a close hook for main.
type FactoryResult struct {
	Driver string
	Store  Store
	Close  func() error
}

// New builds the Store named by cfg.Driver.
func New(ctx context.Context, cfg FactoryConfig) (FactoryResult, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", DriverMemory:
		return FactoryResult{Driver: DriverMemory, Store: NewMemory(), Close: noop}, nil

	case DriverRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: DriverRedis, Store: NewRedis(client), Close: client.Close}, nil

	case DriverDynamoDB:
		if cfg.DynamoTable == "" {
			return FactoryResult{}, fmt.Errorf("dynamodb image store requires a table name")
		}
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return FactoryResult{}, err
		}
		client := awspkg.NewDynamoDBClient(awsCfg)
		return FactoryResult{Driver: DriverDynamoDB, Store: NewDynamo(client, cfg.DynamoTable), Close: noop}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown image store driver: %s", cfg.Driver)
	}
}
