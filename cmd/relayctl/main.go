// relayctl pushes a notification into a running relay from the command
// line, the same way a CI script would over raw HTTP.
//
//	relayctl -message "Build completed"
//	relayctl -message "Maintenance in 1 hour" -type warning -no-auto-close
//	relayctl -message "Background task done" -auto-close 0
//	relayctl -url http://build-host:8585 -message "Deployed" -token s3cret
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"

	"github.com/adilakhmetov/notify-relay/internal/model"
	"github.com/adilakhmetov/notify-relay/pkg/relayclient"
)

func main() {
	os.Exit(run())
}

func run() int {
	urlFlag := flag.String("url", "http://127.0.0.1:8585", "relay base URL")
	message := flag.String("message", "", "notification message (required)")
	typeFlag := flag.String("type", "info", "notification type: default, info, success, warning, error, in-progress")
	autoClose := flag.Int64("auto-close", model.DefaultAutoCloseMillis, "auto-close timeout in milliseconds (0 for silent)")
	noAutoClose := flag.Bool("no-auto-close", false, "disable auto-close (stays until dismissed)")
	token := flag.String("token", "", "auth token (default: RELAY_TOKEN or NOTIFY_TOKEN env)")
	data := flag.String("data", "", "JSON data to attach, e.g. '{\"url\": \"https://example.com\"}'")
	action := flag.String("action", "", "add a dismiss button with this label")
	verbose := flag.Bool("verbose", false, "print the JSON payload before sending")
	flag.Parse()

	_ = godotenv.Load()

	if *message == "" {
		fmt.Fprintln(os.Stderr, "-message is required")
		flag.Usage()
		return 2
	}

	// The server would silently fall back to "info", but a typo on the
	// command line deserves a loud answer.
	if model.ParseLevel(*typeFlag) != model.Level(*typeFlag) {
		fmt.Fprintf(os.Stderr, "unknown -type %q\n", *typeFlag)
		return 2
	}

	// Loopback targets are exempt from authentication on the server, so
	// env-token auto-detection only kicks in for remote ones. An
	// explicit -token is always sent.
	tok := *token
	if tok == "" && !loopbackURL(*urlFlag) {
		tok = os.Getenv("RELAY_TOKEN")
		if tok == "" {
			tok = os.Getenv("NOTIFY_TOKEN")
		}
	}

	ac := &model.AutoClose{Millis: *autoClose}
	if *noAutoClose {
		ac = &model.AutoClose{Disabled: true}
	}

	payload := relayclient.Payload{
		Message:   *message,
		Type:      *typeFlag,
		AutoClose: ac,
	}

	if *data != "" {
		if !json.Valid([]byte(*data)) {
			fmt.Fprintf(os.Stderr, "-data is not valid JSON: %s\n", *data)
			return 2
		}
		payload.Data = json.RawMessage(*data)
	}

	if *action != "" {
		payload.Actions = []model.Action{{
			Label:       *action,
			Caption:     "Close this notification",
			DisplayType: model.DisplayDefault,
		}}
	}

	if *verbose {
		pretty, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Printf("sending payload:\n%s\n", pretty)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := relayclient.New(*urlFlag, tok)
	strategy := retry.Strategy{Attempts: 3, Delay: 500 * time.Millisecond}

	id, err := client.SendWithRetry(ctx, payload, strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to send notification: %v\n", err)
		fmt.Fprintf(os.Stderr, "is the relay running at %s?\n", *urlFlag)
		return 1
	}

	fmt.Printf("notification sent: %s\n", id)
	return 0
}

// loopbackURL reports whether the target URL points at the local
// machine (localhost, 127.0.0.1, ::1).
func loopbackURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
