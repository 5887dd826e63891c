package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"upload-relay-api/internal/config"
	"upload-relay-api/internal/handlers"
	"upload-relay-api/pkg/lambda"
	"upload-relay-api/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	cfg.Upload.Provider = "shopify"

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req := &lambda.Request{
		Method:          event.HTTPMethod,
		Path:            event.Path,
		Headers:         event.Headers,
		QueryParams:     event.QueryStringParameters,
		Body:            []byte(event.Body),
		IsBase64Encoded: event.IsBase64Encoded,
	}

	uploadHandler := handlers.NewUploadHandler(container.UploadService)

	resp, err := uploadHandler.HandleRelayUpload(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error": "Internal server error"}`,
		}, nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}, nil
}

func main() {
	awslambda.Start(handler)
}
