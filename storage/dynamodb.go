package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pagebin/pagebin/models"
)

// DynamoStore implements PageStore using DynamoDB
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a new DynamoDB storage backend
func NewDynamoStore(tableName, region string) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}, nil
}

// Insert saves a page to DynamoDB
func (d *DynamoStore) Insert(page *models.Page) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assets := make([]types.AttributeValue, 0, len(page.Assets))
	for _, a := range page.Assets {
		assets = append(assets, &types.AttributeValueMemberS{Value: a})
	}

	item := map[string]types.AttributeValue{
		"slug":       &types.AttributeValueMemberS{Value: page.Slug},
		"content":    &types.AttributeValueMemberS{Value: page.Content},
		"created_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(page.CreatedAt.Unix(), 10)},
		"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(page.ExpiresAt.Unix(), 10)},
		"assets":     &types.AttributeValueMemberL{Value: assets},
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(slug)"),
	})

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrDuplicateSlug
	}
	return err
}

// Get retrieves a page by its slug
func (d *DynamoStore) Get(slug string) (*models.Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"slug": &types.AttributeValueMemberS{Value: slug},
		},
	})
	if err != nil {
		return nil, err
	}

	if result.Item == nil {
		return nil, nil // Not found
	}

	return itemToPage(result.Item)
}

// Exists checks if a page exists by its slug
func (d *DynamoStore) Exists(slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"slug": &types.AttributeValueMemberS{Value: slug},
		},
		ProjectionExpression: aws.String("slug"),
	})
	if err != nil {
		return false, err
	}
	return result.Item != nil, nil
}

// Delete removes a page from DynamoDB. Deleting an absent slug is a no-op.
func (d *DynamoStore) Delete(slug string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"slug": &types.AttributeValueMemberS{Value: slug},
		},
	})

	return err
}

// FindExpired returns all pages with expires_at <= before
func (d *DynamoStore) FindExpired(before time.Time) ([]*models.Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var pages []*models.Page
	var startKey map[string]types.AttributeValue

	for {
		result, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(d.tableName),
			FilterExpression: aws.String("expires_at <= :before"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":before": &types.AttributeValueMemberN{Value: strconv.FormatInt(before.Unix(), 10)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range result.Items {
			page, err := itemToPage(item)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return pages, nil
}

// DeleteMany removes exactly the given slugs in batches of 25 (the
// BatchWriteItem limit)
func (d *DynamoStore) DeleteMany(slugs []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const batchLimit = 25
	for start := 0; start < len(slugs); start += batchLimit {
		end := start + batchLimit
		if end > len(slugs) {
			end = len(slugs)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, slug := range slugs[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"slug": &types.AttributeValueMemberS{Value: slug},
					},
				},
			})
		}

		_, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				d.tableName: requests,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the DynamoDB connection (no persistent connection to close)
func (d *DynamoStore) Close() error {
	return nil
}

// itemToPage converts a DynamoDB item to a Page
func itemToPage(item map[string]types.AttributeValue) (*models.Page, error) {
	page := &models.Page{}

	if v, ok := item["slug"].(*types.AttributeValueMemberS); ok {
		page.Slug = v.Value
	}
	if v, ok := item["content"].(*types.AttributeValueMemberS); ok {
		page.Content = v.Value
	}
	if v, ok := item["created_at"].(*types.AttributeValueMemberN); ok {
		ts, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		page.CreatedAt = time.Unix(ts, 0).UTC()
	}
	if v, ok := item["expires_at"].(*types.AttributeValueMemberN); ok {
		ts, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		page.ExpiresAt = time.Unix(ts, 0).UTC()
	}
	if v, ok := item["assets"].(*types.AttributeValueMemberL); ok {
		for _, av := range v.Value {
			if s, ok := av.(*types.AttributeValueMemberS); ok {
				page.Assets = append(page.Assets, s.Value)
			}
		}
	}

	return page, nil
}
