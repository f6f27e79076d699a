// Command bot plays the 21-variant card game against a running game room
// server. It drives a full table of automated players over the REST API:
// creates a room, seats every player, deals rounds and acts on each turn
// using a card-counting strategy, then votes to continue until the requested
// number of rounds has been played.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Card struct {
	Rank  string `json:"rank"`
	Value int    `json:"value"`
	Suit  string `json:"suit"`
}

type RoundPlayer struct {
	UserID    string `json:"user_id"`
	SeatIndex int    `json:"seat_index"`
	Hand      []Card `json:"hand"`
	State     string `json:"state"`
	Points    int    `json:"points"`
	Winner    bool   `json:"winner"`
}

type Snapshot struct {
	GameID        string         `json:"game_id"`
	GameStatus    string         `json:"game_status"`
	RoundID       string         `json:"round_id"`
	RoundStatus   string         `json:"round_status"`
	TurnSeatIndex int            `json:"turn_seat_index"`
	DeckRemaining int            `json:"deck_remaining"`
	Players       []*RoundPlayer `json:"players"`
}

type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HostID   string `json:"host_id"`
	Status   string `json:"status"`
	MaxSeats int    `json:"max_seats"`
}

type Game struct {
	ID     string `json:"id"`
	RoomID string `json:"room_id"`
	Status string `json:"status"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// call sends one authenticated API request and decodes the JSON response
// into result when it is non-nil.
func (c *Client) call(method, path, userID string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateRoom(host, name string) (*Room, error) {
	var room Room
	err := c.call("POST", "/api/rooms", host, map[string]string{"name": name}, &room)
	return &room, err
}

func (c *Client) JoinRoom(roomID, user string) error {
	return c.call("POST", "/api/rooms/"+roomID+"/join", user, nil, nil)
}

func (c *Client) CreateGame(roomID, user string) (*Game, error) {
	var game Game
	err := c.call("POST", "/api/rooms/"+roomID+"/games", user, nil, &game)
	return &game, err
}

func (c *Client) StartRound(gameID, user string) error {
	return c.call("POST", "/api/games/"+gameID+"/rounds", user, nil, nil)
}

func (c *Client) Current(gameID, user string) (*Snapshot, error) {
	var snap Snapshot
	err := c.call("GET", "/api/games/"+gameID+"/current", user, nil, &snap)
	return &snap, err
}

func (c *Client) Hit(gameID, user string) error {
	return c.call("POST", "/api/games/"+gameID+"/hit", user, nil, nil)
}

func (c *Client) Stand(gameID, user string) error {
	return c.call("POST", "/api/games/"+gameID+"/stand", user, nil, nil)
}

func (c *Client) Continue(gameID, user string, decision bool) error {
	return c.call("POST", "/api/games/"+gameID+"/continue", user, map[string]bool{"continue": decision}, nil)
}

func (c *Client) Cancel(gameID, user string) error {
	return c.call("POST", "/api/games/"+gameID+"/cancel", user, nil, nil)
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	players := flag.Int("players", 3, "Number of automated players (2-7)")
	rounds := flag.Int("rounds", 10, "Rounds to play before quitting")
	risk := flag.Float64("risk", 0.35, "Hit while the estimated bust probability stays below this")
	delayMs := flag.Int("delay", 0, "Delay between actions in milliseconds (0 = no delay)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *players < 2 || *players > 7 {
		log.Fatalf("players must be between 2 and 7, got %d", *players)
	}

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	names := make([]string, *players)
	for i := range names {
		names[i] = fmt.Sprintf("bot-%d", i+1)
	}
	host := names[0]

	room, err := client.CreateRoom(host, "bot table")
	if err != nil {
		log.Fatalf("Failed to create room: %v", err)
	}
	log.Printf("Room created: %s (%d seats)", room.ID, room.MaxSeats)

	for _, name := range names[1:] {
		if err := client.JoinRoom(room.ID, name); err != nil {
			log.Fatalf("Failed to seat %s: %v", name, err)
		}
	}

	game, err := client.CreateGame(room.ID, host)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	log.Printf("Game created: %s", game.ID)

	wins := make(map[string]int)
	strategy := NewCountingStrategy(*risk)

	for roundNum := 1; roundNum <= *rounds; roundNum++ {
		// Later rounds are dealt by the unanimous continue vote itself.
		if roundNum == 1 {
			if err := client.StartRound(game.ID, host); err != nil {
				log.Fatalf("Round %d: failed to deal: %v", roundNum, err)
			}
		}

		if err := playRound(client, game.ID, names, strategy, *verbose, *delayMs); err != nil {
			log.Fatalf("Round %d: %v", roundNum, err)
		}

		snap, err := client.Current(game.ID, host)
		if err != nil {
			log.Fatalf("Round %d: failed to read result: %v", roundNum, err)
		}
		for _, p := range snap.Players {
			if p.Winner {
				wins[p.UserID]++
				if *verbose {
					log.Printf("Round %d: %s wins with %d", roundNum, p.UserID, p.Points)
				}
			}
		}

		// Everyone votes to continue except after the final round.
		if roundNum == *rounds {
			break
		}
		for _, name := range names {
			if err := client.Continue(game.ID, name, true); err != nil {
				log.Fatalf("Round %d: continue vote failed for %s: %v", roundNum, name, err)
			}
		}
	}

	if err := client.Cancel(game.ID, host); err != nil {
		log.Printf("Warning: failed to end game: %v", err)
	}

	log.Printf("Played %d rounds:", *rounds)
	for _, name := range names {
		log.Printf("  %-8s %d wins", name, wins[name])
	}
	os.Exit(0)
}

// playRound acts for whichever player holds the turn until the round ends.
func playRound(client *Client, gameID string, names []string, strategy *CountingStrategy, verbose bool, delayMs int) error {
	for turn := 0; ; turn++ {
		snap, err := client.Current(gameID, names[0])
		if err != nil {
			return fmt.Errorf("read state: %w", err)
		}
		if snap.RoundStatus != "in_progress" {
			return nil
		}
		// Generous upper bound: the deck runs out long before this.
		if turn > 200 {
			return fmt.Errorf("round did not resolve after %d actions", turn)
		}

		var actor *RoundPlayer
		for _, p := range snap.Players {
			if p.SeatIndex == snap.TurnSeatIndex {
				actor = p
				break
			}
		}
		if actor == nil {
			return fmt.Errorf("no player at turn seat %d", snap.TurnSeatIndex)
		}

		if strategy.ShouldHit(snap, actor) {
			if verbose {
				log.Printf("  %s hits at %d (bust risk %.2f)",
					actor.UserID, actor.Points, strategy.BustProbability(snap, actor))
			}
			err = client.Hit(gameID, actor.UserID)
		} else {
			if verbose {
				log.Printf("  %s stands at %d", actor.UserID, actor.Points)
			}
			err = client.Stand(gameID, actor.UserID)
		}
		if err != nil {
			return fmt.Errorf("%s failed to act: %w", actor.UserID, err)
		}

		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}
}
