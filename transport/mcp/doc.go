// Package mcp provides a Model Context Protocol interface for the game room
// server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for room and game operations
//   - A thin proxy that forwards every tool call to the REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_room / join_room / list_rooms / get_room: room boilerplate
//   - start_room: begin a room's memory color game
//   - create_game / start_round: card game lifecycle
//   - hit / stand: card game actions
//   - continue_round: vote on continuing after a round
//   - cancel_game: end a game outright
//   - current: player-facing view of the live round
//   - submit_turn / add_color / list_turns: memory color game turns
//   - list_presets: available table presets
//   - game_instructions: full rules for both games
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Identity:
//
// Every acting tool takes a user_id parameter, forwarded to the REST API as
// the X-User-ID header. Agents can drive several players by passing
// different user IDs.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
