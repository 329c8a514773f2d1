package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/checkmate/internal/app"
	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/config"
	"github.com/five82/checkmate/internal/headline"
	"github.com/five82/checkmate/internal/state"
	"github.com/five82/checkmate/internal/submission"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("checkmate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "override config path (optional)")
	prefsPath := fs.String("prefs", "", "override preferences path (optional)")
	pollSeconds := fs.Int("poll", 0, "health poll interval in seconds (optional, defaults to 60s)")
	feedURL := fs.String("feed", "", "RSS/Atom feed to offer headlines from (optional)")
	asJSON := fs.Bool("json", false, "print one-shot results as JSON")
	checkText := fs.String("check", "", "check a single headline and exit")
	healthOnly := fs.Bool("health", false, "probe the API once and exit")
	if err := fs.Parse(args); err != nil {
		return exitValidation
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "checkmate: %v\n", err)
		return exitFailure
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		PollEvery:  *pollSeconds,
		FeedURL:    *feedURL,
	}

	switch {
	case *healthOnly:
		return runHealth(ctx, opts, *asJSON, stdout, stderr)
	case *checkText != "":
		return runCheck(ctx, opts, *checkText, *asJSON, stdout, stderr)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(stderr, "checkmate: %v\n", err)
		return exitFailure
	}
	return exitOK
}

type checkReport struct {
	Headline string                        `json:"headline"`
	Status   string                        `json:"status"`
	Result   *checkmate.PredictionResponse `json:"result,omitempty"`
	Error    string                        `json:"error,omitempty"`
	Attempts int                           `json:"attempts"`
}

func runCheck(ctx context.Context, opts app.Options, text string, asJSON bool, stdout, stderr io.Writer) int {
	st, err := app.Check(ctx, opts, text)
	var verr *headline.ValidationError
	if errors.As(err, &verr) {
		if asJSON {
			_ = writeJSON(stdout, checkReport{Headline: text, Status: "invalid", Error: verr.Error()})
		} else {
			fmt.Fprintln(stderr, verr.Error())
		}
		return exitValidation
	}
	if err != nil {
		fmt.Fprintf(stderr, "checkmate: %v\n", err)
		return exitFailure
	}

	report := checkReport{Headline: st.Headline, Status: st.Phase.String(), Attempts: st.Attempts}
	if st.Phase == submission.PhaseSuccess {
		report.Result = &st.Result
	}
	if st.Err != nil {
		report.Error = st.Err.Detail
	}

	if asJSON {
		if err := writeJSON(stdout, report); err != nil {
			fmt.Fprintf(stderr, "checkmate: %v\n", err)
			return exitFailure
		}
	} else if report.Result != nil {
		r := report.Result
		verdict := "Likely Fake News"
		if r.IsReal() {
			verdict = "Likely Real News"
		} else if r.Label != checkmate.LabelFake {
			verdict = "Label: " + string(r.Label)
		}
		fmt.Fprintf(stdout, "%s (confidence %d%%)\nreal %d%%  fake %d%%\n",
			verdict, r.ConfidencePercent(), r.RealPercent(), r.FakePercent())
	} else {
		fmt.Fprintf(stderr, "check failed after %d attempt(s): %s\n", st.Attempts, report.Error)
	}

	if st.Phase != submission.PhaseSuccess {
		return exitFailure
	}
	return exitOK
}

type healthReport struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runHealth(ctx context.Context, opts app.Options, asJSON bool, stdout, stderr io.Writer) int {
	snap, err := app.Health(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "checkmate: %v\n", err)
		return exitFailure
	}

	report := healthReport{Status: snap.Status.String(), Note: snap.Health.Note}
	if snap.LastError != nil {
		report.Error = checkmate.AsAPIError(snap.LastError).Detail
	}
	if asJSON {
		if err := writeJSON(stdout, report); err != nil {
			fmt.Fprintf(stderr, "checkmate: %v\n", err)
			return exitFailure
		}
	} else {
		line := snap.Summary()
		if report.Error != "" {
			line += ": " + report.Error
		} else if report.Note != "" {
			line += ": " + report.Note
		}
		fmt.Fprintln(stdout, line)
	}

	if snap.Status != state.StatusOnline {
		return exitFailure
	}
	return exitOK
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
