package greeting

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Path is the canonical route. Requests are matched case-insensitively.
const Path = "/greeting"

// Register wires the greeting route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-greeting",
		Method:      http.MethodGet,
		Path:        Path,
		Summary:     "Get the greeting message",
		Tags:        []string{"Greeting"},
	}, getHandler)
}

// Get builds the greeting payload.
func Get() Data {
	return Data{Message: Message}
}

func getHandler(_ context.Context, _ *struct{}) (*GetOutput, error) {
	return &GetOutput{Body: Get()}, nil
}
