// jarvisd exposes the assistant over a WebSocket: an upstream
// speech-to-text process pushes transcript frames and receives reply
// frames. Turns on one connection are handled strictly in order.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"

	"jarvis/internal/assistant"
	"jarvis/internal/config"
	"jarvis/internal/integrations/calendar"
	"jarvis/internal/integrations/gmail"
	"jarvis/internal/integrations/notion"
	"jarvis/internal/journal"
	"jarvis/internal/llm"
	"jarvis/internal/router"
)

// Frame is one message in either direction
type Frame struct {
	Type string `json:"type"` // "transcript", "reply", "error"
	Text string `json:"text"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	var (
		envFile string
		addr    string
	)
	pflag.StringVar(&envFile, "env", "", "path to .env file (default: ./.env if present)")
	pflag.StringVar(&addr, "addr", ":8765", "listen address")
	pflag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	os.MkdirAll(cfg.StatePath, 0755)

	cal, err := calendar.NewClientWithConfig(calendar.Config{
		CredentialsFile: cfg.GoogleCredentialsFile,
		CalendarID:      cfg.GoogleCalendarID,
	})
	if err != nil {
		log.Fatalf("[calendar] %v", err)
	}
	mail, err := gmail.NewClientWithCredentials(cfg.GoogleCredentialsFile)
	if err != nil {
		log.Fatalf("[gmail] %v", err)
	}
	notionClient := notion.NewClientWithToken(cfg.NotionAPIKey)
	notes := notion.NewNotes(notionClient, cfg.NotionDatabaseID)
	tasks := notion.NewTasks(notionClient, cfg.NotionDatabaseID)

	parser := llm.NewParser(llm.NewClient(cfg.LlamaServerURL), cfg.Keywords)
	dispatcher := router.NewDispatcher(cfg.Keywords, cal, mail, notes, tasks)

	var recorder assistant.Recorder
	store, err := journal.Open(cfg.StatePath)
	if err != nil {
		log.Printf("[journal] disabled: %v", err)
	} else {
		recorder = store
		defer store.Close()
	}

	engine := assistant.NewEngine(parser, dispatcher, cal, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serve(ctx, engine, w, r)
	})

	server := &http.Server{Addr: addr, Handler: mux}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("[gateway] listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[gateway] %v", err)
	}
}

// serve runs one connection. Each transcript is processed to completion
// before the next is read, keeping turns sequential.
func serve(ctx context.Context, engine *assistant.Engine, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[gateway] read: %v", err)
			}
			return
		}

		if frame.Type != "transcript" || frame.Text == "" {
			conn.WriteJSON(Frame{Type: "error", Text: "expected a transcript frame"})
			continue
		}

		if assistant.StopRequested(frame.Text) {
			conn.WriteJSON(Frame{Type: "reply", Text: assistant.Goodbye})
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}

		reply := engine.HandleTurn(ctx, frame.Text)
		if err := conn.WriteJSON(Frame{Type: "reply", Text: reply}); err != nil {
			log.Printf("[gateway] write: %v", err)
			return
		}
	}
}
