// Package service provides the business logic layer for the card-table
// server.
//
// The service package implements:
//   - Game lifecycle orchestration for the 21-variant card game
//   - The between-rounds continuation vote
//   - Memory color game turn submission and confirmation
//   - Room creation, seating and listing
//
// Core Interfaces:
//
// GameService drives the card game, TurnService the memory color game and
// RoomService the room boilerplate. Storage and Notifier are the external
// collaborators: persistence and fire-and-forget event delivery. GameLocker
// serializes all mutations per game.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine. It loads entity snapshots from Storage, mutates them
// through the pure engine, then persists the results with explicit save
// calls — the engine itself never performs I/O. Concurrent actions against
// the same game are serialized through the GameLocker so the deck/hand
// conservation and turn-order invariants hold.
//
// Usage:
//
//	locks := session.NewManager()
//	store := memory.NewStore()
//	gameSvc := service.NewGameService(store, hub, locks, logger)
//
//	outcome, err := gameSvc.Hit(ctx, gameID, userID)
package service
