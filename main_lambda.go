//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, errors.New("invalid base64 body"))
		}
		body = string(decoded)
	}

	req, err := ParseRequest(body)
	if err != nil {
		return errResp(400, err)
	}

	cfg := DefaultConfig()
	cfg.Seed = req.Seed
	res, err := Generate(req.Teams, req.Courts, req.Rounds, cfg)
	if err != nil {
		code := 500
		if errors.Is(err, ErrEmptyRoster) || errors.Is(err, ErrInvalidDimensions) {
			code = 400
		}
		return errResp(code, err)
	}

	env := SuccessEnvelope(res, true)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: env.JSON()}, nil
}

func errResp(code int, err error) (events.LambdaFunctionURLResponse, error) {
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: ErrorEnvelope(err).JSON()}, nil
}

func main() {
	lambda.Start(handler)
}
