// Package cli runs one interactive analysis on a terminal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/devenn05/Crypto-signal-check/internal/app"
)

const banner = "=== Crypto Trading Analysis Dashboard ==="

// ReadRequest prompts for the five inputs of an analysis and parses them.
func ReadRequest(in io.Reader, out io.Writer) (app.Request, error) {
	r := bufio.NewReader(in)
	ask := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		line, err := r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	var answers [5]string
	prompts := []string{
		"Choose Market Type (spot/futures): ",
		"Enter Crypto Pair (e.g., BTCUSDT): ",
		"Enter Trade Type (long/short): ",
		"Choose Timeframe Unit (minutes/hours/days): ",
	}
	for i, p := range prompts {
		v, err := ask(p)
		if err != nil {
			return app.Request{}, err
		}
		answers[i] = v
	}
	v, err := ask(fmt.Sprintf("Enter number of %s: ", strings.ToLower(answers[3])))
	if err != nil {
		return app.Request{}, err
	}
	answers[4] = v

	return app.NewRequest(answers[0], answers[1], answers[2], answers[3], answers[4])
}

// Run reads one request, analyzes it and prints the report. Input and
// analysis errors are printed and returned.
func Run(ctx context.Context, analyzer app.Analyzer, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, banner)

	req, err := ReadRequest(in, out)
	if err != nil {
		fmt.Fprintf(out, "\n❌ Error: %v\n", err)
		return err
	}

	res, err := analyzer.Analyze(ctx, req)
	if err != nil {
		fmt.Fprintf(out, "\n❌ Error: %v\n", err)
		return err
	}

	fmt.Fprintln(out, app.FormatReport(res))
	return nil
}
