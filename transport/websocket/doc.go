// Package websocket provides WebSocket transport for game room events.
//
// The websocket package implements:
//   - Real-time event delivery to clients watching a game
//   - Game-aware WebSocket connections
//   - Connection lifecycle management
//   - Fan-out of service events to all watchers of a game
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//
//	{game_id: "...", event: "turn:next", data: {...}}
//
// Clients never send game actions over the socket; actions go through the
// HTTP API and the socket only carries events back.
//
// Game Integration:
//
// WebSocket connections are game-aware. Clients specify the game they want
// to watch via query parameter (?gameId=abc1) when establishing the
// connection. Events are broadcast only to clients watching that game. The
// Hub satisfies the service layer's Notifier interface, so the services emit
// events without knowing about WebSockets.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// route /ws to hub.ServeWS with the gameId query parameter
//
// Connection Lifecycle:
//
// 1. Client connects with a game ID
// 2. Connection registered with hub
// 3. Client receives every event emitted for that game
// 4. Disconnection triggers cleanup
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive events
// simultaneously without blocking each other.
package websocket
