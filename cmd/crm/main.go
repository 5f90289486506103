package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/lead-crm/internal/actions"
	"github.com/BruksfildServices01/lead-crm/internal/app"
	"github.com/BruksfildServices01/lead-crm/internal/config"
	"github.com/BruksfildServices01/lead-crm/internal/timezone"
)

type env struct {
	state *app.State
	loc   *time.Location
	out   io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"login":           {"sign in and store the session", runLogin},
	"register":        {"create an account and sign in", runRegister},
	"logout":          {"forget the stored session", runLogout},
	"whoami":          {"show the signed-in user", runWhoami},
	"leads":           {"list leads (filters, grouping)", runLeads},
	"create":          {"create a lead", runCreate},
	"status":          {"change the status of a lead", runStatus},
	"update":          {"edit the details of a lead", runUpdate},
	"delete":          {"delete a lead", runDelete},
	"calendar":        {"month grid with leads per day", runCalendar},
	"stats":           {"totals by status and source", runStats},
	"profile":         {"show or update the profile", runProfile},
	"forgot-password": {"mail a password reset code", runForgotPassword},
	"reset-password":  {"set a new password with a reset code", runResetPassword},
	"reply":           {"draft an AI reply for a lead", runReply},
	"summarize":       {"summarize a conversation", runSummarize},
}

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		return 2
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		return 2
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Printf("crm: %v", err)
		return 1
	}

	if !timezone.IsValid(cfg.Timezone) {
		log.Printf("crm: invalid CRM_TIMEZONE %q", cfg.Timezone)
		return 1
	}
	loc := timezone.Location(cfg.Timezone)

	state, err := app.New(app.Config{
		BaseURL:     cfg.APIBaseURL,
		StateDir:    cfg.StateDir,
		HTTPTimeout: cfg.HTTPTimeout,
		Notifier:    actions.NotifierFunc(printNotification),
	})
	if err != nil {
		log.Printf("crm: %v", err)
		return 1
	}
	defer state.Teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := &env{state: state, loc: loc, out: os.Stdout}
	if err := cmd.run(ctx, e, os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		var verr *actions.ValidationError
		if !errors.As(err, &verr) {
			log.Printf("crm %s: %v", os.Args[1], err)
		}
		return 1
	}
	return 0
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "usage: crm <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands[name].summary)
	}
}

func printNotification(n actions.Notification) {
	w := os.Stdout
	if n.Variant == actions.VariantDestructive {
		w = os.Stderr
	}
	if n.Description == "" {
		fmt.Fprintln(w, n.Title)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", n.Title, n.Description)
}
