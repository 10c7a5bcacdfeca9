package storage

import (
	"fmt"
	"log"

	"github.com/pagebin/pagebin/config"
)

// NewStore creates a storage backend based on the configuration
func NewStore(cfg *config.Config) (PageStore, error) {
	switch cfg.StorageType {
	case "filesystem":
		log.Printf("Using filesystem storage: %s", cfg.DataDir)
		return NewFilesystemStore(cfg.DataDir)

	case "mongodb":
		log.Printf("Using MongoDB storage: %s/%s", cfg.MongoDBDatabase, cfg.MongoDBCollection)
		return NewMongoStore(cfg.MongoDBURI, cfg.MongoDBDatabase, cfg.MongoDBCollection)

	case "dynamodb":
		log.Printf("Using DynamoDB storage: %s", cfg.DynamoDBTable)
		return NewDynamoStore(cfg.DynamoDBTable, cfg.AWSRegion)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: filesystem, mongodb, dynamodb)", cfg.StorageType)
	}
}
