package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

func JSON(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		return respond(http.StatusInternalServerError, fmt.Sprintf(`{"message": "could not marshal response", "error": %q}`, err.Error()))
	}

	return respond(status, string(data))
}

func Message(status int, message string, details ...any) events.APIGatewayProxyResponse {
	response := struct {
		Message string `json:"message"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		return respond(status, fmt.Sprintf(`{"message": %q, "details":%q}`, message, marshalErr.Error()))
	}

	return respond(status, string(body))
}

func Error(status int, message string, err error, details ...any) events.APIGatewayProxyResponse {
	response := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Error:   err.Error(),
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		return respond(status, fmt.Sprintf(`{"message": %q, "error": %q, "details":%q}`, message, err.Error(), marshalErr.Error()))
	}

	return respond(status, string(body))
}

func respond(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}
