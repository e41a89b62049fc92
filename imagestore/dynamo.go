package imagestore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the subset of *dynamodb.Client the store needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Dynamo stores images in a table keyed by `image_key` (string).
// DynamoDB caps items at 400KB, so MAX_IMAGE_BYTES must stay below that
// when this driver is selected.
type Dynamo struct {
	client DynamoAPI
	table  string
}

func NewDynamo(client DynamoAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

type ddbImage struct {
	ImageKey string `dynamodbav:"image_key"`
	Image    string `dynamodbav:"image"`
}

func (d *Dynamo) Get(ctx context.Context, id int64) (string, bool, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"image_key": Key(id)})
	if err != nil {
		return "", false, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return "", false, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}
	var item ddbImage
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", false, fmt.Errorf("unmarshal item: %w", err)
	}
	return item.Image, true, nil
}

func (d *Dynamo) Set(ctx context.Context, id int64, image string) error {
	if image == "" {
		return nil
	}
	item, err := attributevalue.MarshalMap(ddbImage{ImageKey: Key(id), Image: image})
	if err != nil {
		return fmt.Errorf("marshal image: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *Dynamo) Remove(ctx context.Context, id int64) error {
	key, err := attributevalue.MarshalMap(map[string]string{"image_key": Key(id)})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if _, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &d.table, Key: key}); err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func (d *Dynamo) String() string { return "dynamodb(" + d.table + ")" }
