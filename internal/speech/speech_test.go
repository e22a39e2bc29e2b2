package speech

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestConsoleListenSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n  \ncheck my calendar\n")
	var out bytes.Buffer
	c := NewConsole(in, &out)

	got, err := c.Listen()
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if got != "check my calendar" {
		t.Errorf("Listen = %q", got)
	}
}

func TestConsoleListenEOF(t *testing.T) {
	c := NewConsole(strings.NewReader(""), io.Discard)

	if _, err := c.Listen(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestConsoleSpeak(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out)

	if err := c.Speak("Goodbye! Shutting down."); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if out.String() != "Jarvis: Goodbye! Shutting down.\n" {
		t.Errorf("output = %q", out.String())
	}
}
