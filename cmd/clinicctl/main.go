// clinicctl is a terminal client for the clinic booking API. It drives the
// same client layer the mobile app uses, so it doubles as a smoke test for a
// deployed backend. Pass -fixture to run against canned data with no server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jitendra20661/cbct-fyp/internal/appclient"
	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

const usage = `usage: clinicctl [flags] <command> [args]

commands:
  categories                      list specialties
  doctors <category>              list doctors for a specialty
  doctor <id>                     show one doctor
  login <email>                   log in (password prompted)
  signup <name> <email>           create an account (password prompted)
  profile                         show the logged-in user
  appointments                    list your appointments
  book <doctorId> <date> <slot>   book an appointment
  pay <appointmentId>             pay the deposit
  call <appointmentId>            start an AI confirmation call
  quickcall                       start an anonymous triage call
  logout                          clear the local session

flags:
`

func main() {
	baseURL := flag.String("url", envOr("CLINIC_API_URL", "http://localhost:8080"), "API base URL")
	fixture := flag.Bool("fixture", false, "use canned data instead of a live backend")
	sessionPath := flag.String("session", defaultSessionPath(), "session file path")
	logLevel := flag.String("log-level", "error", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.New(*logLevel)
	store := appclient.NewFileStore(*sessionPath)

	var api appclient.API
	if *fixture {
		api = appclient.NewFixture(store, 0, logger)
	} else {
		api = appclient.NewClient(*baseURL, store, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, api, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api appclient.API, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "categories":
		return printResult(api.GetCategories(ctx))
	case "doctors":
		if len(rest) != 1 {
			return fmt.Errorf("usage: clinicctl doctors <category>")
		}
		return printResult(api.GetDoctorsByCategory(ctx, rest[0]))
	case "doctor":
		if len(rest) != 1 {
			return fmt.Errorf("usage: clinicctl doctor <id>")
		}
		return printResult(api.GetDoctor(ctx, rest[0]))
	case "login":
		if len(rest) != 1 {
			return fmt.Errorf("usage: clinicctl login <email>")
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		resp := api.Login(ctx, rest[0], password)
		if resp.OK() {
			fmt.Printf("logged in as %s\n", resp.Data.User.Name)
			return nil
		}
		return fmt.Errorf("%s", resp.Error)
	case "signup":
		if len(rest) != 2 {
			return fmt.Errorf("usage: clinicctl signup <name> <email>")
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		resp := api.Signup(ctx, rest[0], rest[1], password)
		if resp.OK() {
			fmt.Printf("account created for %s\n", resp.Data.User.Email)
			return nil
		}
		return fmt.Errorf("%s", resp.Error)
	case "profile":
		return printResult(api.GetProfile(ctx))
	case "appointments":
		return printResult(api.GetAppointments(ctx))
	case "book":
		if len(rest) != 3 {
			return fmt.Errorf("usage: clinicctl book <doctorId> <date> <slot>")
		}
		return printResult(api.BookAppointment(ctx, rest[0], rest[1], rest[2]))
	case "pay":
		if len(rest) != 1 {
			return fmt.Errorf("usage: clinicctl pay <appointmentId>")
		}
		return printResult(api.InitiatePayment(ctx, rest[0]))
	case "call":
		if len(rest) != 1 {
			return fmt.Errorf("usage: clinicctl call <appointmentId>")
		}
		return printResult(api.TriggerAIVoiceForAppointment(ctx, rest[0]))
	case "quickcall":
		return printResult(api.TriggerAIQuick(ctx))
	case "logout":
		api.Logout(ctx)
		fmt.Println("logged out")
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// printResult renders the envelope: data as indented JSON, errors as errors.
func printResult[T any](resp appclient.Response[T]) error {
	if !resp.OK() {
		return fmt.Errorf("%s", resp.Error)
	}
	out, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	// Piped stdin (scripts, tests) falls back to a plain line read.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clinicctl-session.json"
	}
	return filepath.Join(home, ".clinicctl", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
