package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Global AWS clients
var dynamoClient *dynamodb.Client

// This init() function will run once Lambda starts
func init() {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(fmt.Sprintf("failed to load AWS config: %v", err))
	}

	dynamoClient = dynamodb.NewFromConfig(cfg)
}

// recordHit increments the counter for the request path and returns the new
// count as DynamoDB reports it.
func recordHit(ctx context.Context, tableName string, path string) (string, error) {
	result, err := dynamoClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			"path": &types.AttributeValueMemberS{Value: path},
		},
		UpdateExpression: aws.String("ADD hits :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", fmt.Errorf("failed to update hit counter: %v", err)
	}

	hits, ok := result.Attributes["hits"].(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("unexpected attribute type for hits counter")
	}
	return hits.Value, nil
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tableName := os.Getenv("TABLE_NAME")
	if tableName == "" {
		log.Println("Error: TABLE_NAME environment variable not set")
		return serviceResponse(500, `{"message":"configuration error"}`), nil
	}

	path := event.Path
	if path == "" {
		path = "/"
	}

	hits, err := recordHit(ctx, tableName, path)
	if err != nil {
		log.Printf("Failed to record hit for %s: %v", path, err)
		return serviceResponse(500, `{"message":"internal error"}`), nil
	}

	log.Printf("Recorded hit %s for %s", hits, path)
	return serviceResponse(200, hitsBody(path, hits)), nil
}

func hitsBody(path string, hits string) string {
	return fmt.Sprintf(`{"path":%q,"hits":%s}`, path, hits)
}

func serviceResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// The handler() function is called here
func main() {
	lambda.Start(handler)
}
