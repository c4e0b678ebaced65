package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

const baseURL = "http://localhost:8080"

type commandRequest struct {
	Command string `json:"command"`
}

type stateResponse struct {
	X        *int    `json:"x"`
	Y        *int    `json:"y"`
	Facing   *string `json:"facing"`
	IsPlaced bool    `json:"is_placed"`
	Message  string  `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type event struct {
	Type  string        `json:"type"`
	State stateResponse `json:"state"`
}

// send posts one textual command to the REST boundary.
func send(line string) {
	body, _ := json.Marshal(commandRequest{Command: line})
	resp, err := http.Post(baseURL+"/api/robot/command", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		json.NewDecoder(resp.Body).Decode(&apiErr)
		log.Printf("Rejected (%d): %s", resp.StatusCode, apiErr.Error)
		return
	}

	var state stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		log.Printf("Bad response: %v", err)
		return
	}
	log.Printf("%s", state.Message)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Watch the state stream in the background.
	go func() {
		defer close(done)
		for {
			var evt event
			if err := c.ReadJSON(&evt); err != nil {
				log.Println("Read error:", err)
				return
			}
			if evt.State.IsPlaced {
				log.Printf("<- %s: robot at (%d, %d) facing %s", evt.Type, *evt.State.X, *evt.State.Y, *evt.State.Facing)
			} else {
				log.Printf("<- %s: robot not placed", evt.Type)
			}
		}
	}()

	fmt.Println("Commands: PLACE X,Y,F | MOVE | LEFT | RIGHT | REPORT | quit")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if strings.EqualFold(text, "quit") {
				return
			}
			send(text)
		}
	}
}
