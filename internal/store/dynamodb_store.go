package store

import (
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/fullstack-project/fullstack-go/internal/logger"
)

type DynamoDBProvider struct {
	ddb       dynamodbiface.DynamoDBAPI
	tableName string
	prefix    keyPrefix
}

func NewDynamoDBProvider(region, tableName, prefix string) (*DynamoDBProvider, error) {
	if tableName == "" {
		return nil, errors.New("FULLSTACK_DYNAMODB_TABLE must be set for the dynamodb store")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	return newDynamoDBProvider(dynamodb.New(sess), tableName, prefix), nil
}

func newDynamoDBProvider(ddb dynamodbiface.DynamoDBAPI, tableName, prefix string) *DynamoDBProvider {
	return &DynamoDBProvider{ddb: ddb, tableName: tableName, prefix: keyPrefix(prefix)}
}

func (p *DynamoDBProvider) itemKey(storeName, key string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"StoreName": {S: aws.String(storeName)},
		"Key":       {S: aws.String(p.prefix.apply(key))},
	}
}

func (p *DynamoDBProvider) GetValue(storeName, key string) (interface{}, bool) {
	result, err := p.ddb.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(p.tableName),
		Key:       p.itemKey(storeName, key),
	})
	if err != nil {
		logger.Errorf("failed to get item: %v", err)
		return nil, false
	}
	if result.Item == nil || result.Item["Value"] == nil || result.Item["Value"].S == nil {
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(*result.Item["Value"].S), &value); err != nil {
		logger.Errorf("failed to unmarshal value: %v", err)
		return nil, false
	}
	return value, true
}

func (p *DynamoDBProvider) StoreValue(storeName, key string, value interface{}) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to marshal value: %v", err)
		return
	}
	item := p.itemKey(storeName, key)
	item["Value"] = &dynamodb.AttributeValue{S: aws.String(string(valueBytes))}
	_, err = p.ddb.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item:      item,
	})
	if err != nil {
		logger.Errorf("failed to put item: %v", err)
	}
}

func (p *DynamoDBProvider) query(storeName, keyPrefix string) []map[string]*dynamodb.AttributeValue {
	var items []map[string]*dynamodb.AttributeValue
	err := p.ddb.QueryPages(&dynamodb.QueryInput{
		TableName:              aws.String(p.tableName),
		KeyConditionExpression: aws.String("StoreName = :storeName AND begins_with(#k, :keyPrefix)"),
		ExpressionAttributeNames: map[string]*string{
			"#k": aws.String("Key"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":storeName": {S: aws.String(storeName)},
			":keyPrefix": {S: aws.String(p.prefix.apply(keyPrefix))},
		},
	}, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		logger.Errorf("failed to query items: %v", err)
		return nil
	}
	return items
}

func (p *DynamoDBProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	items := make(map[string]interface{})
	for _, item := range p.query(storeName, keyPrefix) {
		if item["Value"] == nil || item["Value"].S == nil || item["Key"] == nil || item["Key"].S == nil {
			continue
		}
		var value interface{}
		if err := json.Unmarshal([]byte(*item["Value"].S), &value); err != nil {
			logger.Errorf("failed to unmarshal value: %v", err)
			continue
		}
		items[p.prefix.remove(*item["Key"].S)] = value
	}
	return items
}

func (p *DynamoDBProvider) DeleteValue(storeName, key string) {
	_, err := p.ddb.DeleteItem(&dynamodb.DeleteItemInput{
		TableName: aws.String(p.tableName),
		Key:       p.itemKey(storeName, key),
	})
	if err != nil {
		logger.Errorf("failed to delete item: %v", err)
	}
}

func (p *DynamoDBProvider) DeleteStore(storeName string) {
	for _, item := range p.query(storeName, "") {
		_, err := p.ddb.DeleteItem(&dynamodb.DeleteItemInput{
			TableName: aws.String(p.tableName),
			Key: map[string]*dynamodb.AttributeValue{
				"StoreName": item["StoreName"],
				"Key":       item["Key"],
			},
		})
		if err != nil {
			logger.Errorf("failed to delete item: %v", err)
		}
	}
}
