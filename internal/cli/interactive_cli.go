// Package cli implements the interactive terminal walk through related concepts.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

var errEnd = errors.New("end")

// InteractiveCLI holds the terminal a session talks to.
type InteractiveCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	red          *color.Color
	green        *color.Color
	yellow       *color.Color
}

func NewInteractiveCLI(stdin io.Reader, stdout io.Writer) *InteractiveCLI {
	return &InteractiveCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		red:          color.New(color.FgRed),
		green:        color.New(color.FgGreen),
		yellow:       color.New(color.FgYellow),
	}
}

//go:generate mockgen -source=interactive_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

// Session handles one prompt and answer. Returning errEnd stops the loop.
type Session interface {
	Session(ctx context.Context) error
}

// Run repeats session until it ends, fails or the process is interrupted.
func (cli *InteractiveCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "\nReceived interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

func (cli *InteractiveCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func (cli *InteractiveCLI) printError(format string, args ...any) {
	_, _ = cli.red.Fprintf(cli.stdoutWriter, format+"\n", args...)
}

func (cli *InteractiveCLI) printSuccess(format string, args ...any) {
	_, _ = cli.green.Fprintf(cli.stdoutWriter, format+"\n", args...)
}

func (cli *InteractiveCLI) printWarning(format string, args ...any) {
	_, _ = cli.yellow.Fprintf(cli.stdoutWriter, format+"\n", args...)
}
