// Package api provides HTTP REST API handlers for the game room server.
//
// The api package implements:
//   - RESTful endpoints for room and game operations
//   - Table preset listing and inspection
//   - Per-user request rate limiting
//   - WebSocket upgrade handling
//   - Prometheus metrics and health endpoints
//
// Endpoints:
//
// Room Management:
//   - POST /api/rooms - Create a room
//   - GET /api/rooms - List rooms waiting for players
//   - GET /api/rooms/{id} - Get a room
//   - POST /api/rooms/{id}/join - Take a seat in a room
//   - POST /api/rooms/{id}/start - Start the room's memory color game
//   - POST /api/rooms/{id}/games - Create a card game for the room
//
// Card Game Operations:
//   - POST /api/games/{id}/rounds - Deal a new round
//   - POST /api/games/{id}/hit - Draw a card
//   - POST /api/games/{id}/stand - Stand
//   - POST /api/games/{id}/continue - Vote on continuing after a round
//   - POST /api/games/{id}/cancel - Cancel the game
//   - GET /api/games/{id}/current - Player-facing round snapshot
//
// Memory Color Game Operations:
//   - POST /api/games/{id}/turns - Submit a sequence turn
//   - GET /api/games/{id}/turns - List a game's turns
//   - POST /api/games/{id}/colors - Confirm a turn's new tail color
//
// Presets:
//   - GET /api/presets - List available table presets
//   - GET /api/presets/{name} - Get a preset
//
// Identity:
//
// The acting user is taken from the X-User-ID header on every mutating
// endpoint. Authentication itself happens upstream of this server.
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Domain rejections (acting out of turn, full rooms, votes on finished
// games) map to 409, malformed or unseated requests to 400, unknown
// entities to 404.
package api
