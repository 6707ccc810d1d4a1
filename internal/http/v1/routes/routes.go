package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/greeting-api/internal/http/v1/greeting"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API) {
	greeting.Register(api)
}
