package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"jarvis/internal/assistant"
	"jarvis/internal/config"
	"jarvis/internal/integrations/calendar"
	"jarvis/internal/integrations/gmail"
	"jarvis/internal/integrations/notion"
	"jarvis/internal/journal"
	"jarvis/internal/llm"
	"jarvis/internal/router"
	"jarvis/internal/speech"
)

func main() {
	var (
		envFile   string
		statePath string
		oneShot   string
	)
	pflag.StringVar(&envFile, "env", "", "path to .env file (default: ./.env if present)")
	pflag.StringVar(&statePath, "state", "", "state directory (overrides STATE_PATH)")
	pflag.StringVarP(&oneShot, "command", "c", "", "handle a single command and exit")
	pflag.Parse()

	log.Println("jarvis - voice assistant core")

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	os.MkdirAll(cfg.StatePath, 0755)

	// Integrations
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

	// Core
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

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	console := speech.NewConsole(os.Stdin, os.Stdout)

	if oneShot != "" {
		console.Speak(engine.HandleTurn(ctx, oneShot))
		return
	}

	run(ctx, engine, console)
}

// run is the listen/reply loop. It returns on a stop phrase, end of
// input, or context cancellation.
func run(ctx context.Context, engine *assistant.Engine, console *speech.Console) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := console.Listen()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Printf("[speech] %v", err)
				}
				return
			}
			lines <- line
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, open := <-lines:
			if !open {
				return
			}
			if assistant.StopRequested(line) {
				console.Speak(assistant.Goodbye)
				return
			}
			console.Speak(engine.HandleTurn(ctx, line))
		}
	}
}
