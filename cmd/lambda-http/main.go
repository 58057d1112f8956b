package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http
//
// Deploys run inside the invocation, so the function timeout must cover
// three provider calls (see PROVIDER_TIMEOUT_SECONDS).

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"portfolio-backend/internal/bootstrap"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	app, err := bootstrap.Build(config.Load())
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"request_id": req.RequestContext.RequestID,
			"error":      initErr.Error(),
		})
		return errorResponse("Service unavailable"), nil
	}
	if ginLambda == nil {
		return errorResponse("Router not initialized"), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func errorResponse(detail string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"detail": detail, "code": "internal_error"})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
