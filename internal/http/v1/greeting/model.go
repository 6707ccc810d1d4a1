package greeting

// Message is the fixed greeting returned by the endpoint.
const Message = "Hello, World from an automated pipeline!"

// Data models the response payload for the greeting endpoint.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello, World from an automated pipeline!"`
}

// GetOutput is the response wrapper for the greeting endpoint.
type GetOutput struct {
	Body Data
}
