// Package speech is the boundary to the audio collaborators. The
// assistant core only ever sees transcripts in and reply strings out;
// recognition and synthesis engines live behind these interfaces.
package speech

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Transcriber yields one transcript per listening cycle
type Transcriber interface {
	// Listen blocks until a transcript is available. io.EOF signals the
	// input source is exhausted.
	Listen() (string, error)
}

// Speaker renders one reply
type Speaker interface {
	Speak(text string) error
}

// Console is a text stand-in for the audio stack: lines in, prefixed
// lines out.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewConsole reads transcripts from r and writes replies to w
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{
		scanner: bufio.NewScanner(r),
		out:     w,
		prompt:  "You: ",
	}
}

// Listen reads the next non-empty line
func (c *Console) Listen() (string, error) {
	for {
		fmt.Fprint(c.out, c.prompt)
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		line := strings.TrimSpace(c.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
}

// Speak writes the reply as a "Jarvis:" line
func (c *Console) Speak(text string) error {
	_, err := fmt.Fprintf(c.out, "Jarvis: %s\n", text)
	return err
}
