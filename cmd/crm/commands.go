package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BruksfildServices01/lead-crm/internal/actions"
	"github.com/BruksfildServices01/lead-crm/internal/crm"
	"github.com/BruksfildServices01/lead-crm/internal/crmapi"
	"github.com/BruksfildServices01/lead-crm/internal/views"
)

var errNotSignedIn = errors.New("not signed in, run `crm login` first")

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet("crm "+name, flag.ContinueOnError)
}

// signedIn restores the session without loading leads.
func (e *env) signedIn() error {
	e.state.Session.Init()
	if e.state.Session.Token() == "" {
		return errNotSignedIn
	}
	return nil
}

// loaded restores the session and loads the lead list.
func (e *env) loaded(ctx context.Context) error {
	if err := e.signedIn(); err != nil {
		return err
	}
	e.state.Refresh(ctx)
	return nil
}

// ======================================================
// AUTH
// ======================================================

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("CRM_PASSWORD"), "password (or CRM_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return e.state.Actions.Login(ctx, *email, *password)
}

func runRegister(ctx context.Context, e *env, args []string) error {
	fs := newFlags("register")
	var f actions.RegisterForm
	fs.StringVar(&f.Name, "name", "", "full name")
	fs.StringVar(&f.Email, "email", "", "email")
	fs.StringVar(&f.Password, "password", os.Getenv("CRM_PASSWORD"), "password (or CRM_PASSWORD)")
	fs.StringVar(&f.Phone, "phone", "", "phone")
	fs.StringVar(&f.Location, "location", "", "location")
	fs.StringVar(&f.City, "city", "", "city")
	fs.StringVar(&f.Address, "address", "", "address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.Confirm = f.Password
	return e.state.Actions.Register(ctx, f)
}

func runLogout(_ context.Context, e *env, _ []string) error {
	e.state.Session.Init()
	e.state.Session.Logout()
	fmt.Fprintln(e.out, "Logged out.")
	return nil
}

func runWhoami(_ context.Context, e *env, _ []string) error {
	e.state.Session.Init()
	u := e.state.Session.User()
	if u == nil {
		return errNotSignedIn
	}
	printUser(e.out, u)
	return nil
}

func runForgotPassword(ctx context.Context, e *env, args []string) error {
	fs := newFlags("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return e.state.Actions.ForgotPassword(ctx, *email)
}

func runResetPassword(ctx context.Context, e *env, args []string) error {
	fs := newFlags("reset-password")
	var f actions.ResetForm
	fs.StringVar(&f.Email, "email", "", "account email")
	fs.StringVar(&f.OTP, "otp", "", "code received by email")
	fs.StringVar(&f.Password, "password", os.Getenv("CRM_PASSWORD"), "new password (or CRM_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.Confirm = f.Password
	return e.state.Actions.ResetPassword(ctx, f)
}

// ======================================================
// PROFILE
// ======================================================

func runProfile(ctx context.Context, e *env, args []string) error {
	fs := newFlags("profile")
	var f actions.ProfileForm
	fs.StringVar(&f.Name, "name", "", "new name")
	fs.StringVar(&f.Phone, "phone", "", "new phone")
	fs.StringVar(&f.Location, "location", "", "new location")
	fs.StringVar(&f.City, "city", "", "new city")
	fs.StringVar(&f.Address, "address", "", "new address")
	fs.StringVar(&f.Timezone, "timezone", "", "IANA timezone, e.g. Europe/Lisbon")
	fs.StringVar(&f.Language, "language", "", "preferred language")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.signedIn(); err != nil {
		return err
	}

	if f == (actions.ProfileForm{}) {
		u, err := e.state.API.Profile(ctx, e.state.Session.Token())
		if err != nil {
			return err
		}
		printUser(e.out, u)
		return nil
	}
	return e.state.Actions.UpdateProfile(ctx, f)
}

// ======================================================
// LEADS
// ======================================================

func runLeads(ctx context.Context, e *env, args []string) error {
	fs := newFlags("leads")
	search := fs.String("search", "", "match name, phone or problem")
	status := fs.String("status", views.AllStatuses, "exact status, or All")
	from := fs.String("from", "", "first day (DD/MM/YYYY or YYYY-MM-DD)")
	to := fs.String("to", "", "last day (DD/MM/YYYY or YYYY-MM-DD)")
	preset := fs.String("range", "", "today, last7days, lastyear or all")
	group := fs.String("group", "", "group by status or agent")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var by views.GroupBy
	if *group != "" {
		var ok bool
		if by, ok = views.ParseGroupBy(*group); !ok {
			return fmt.Errorf("invalid -group %q, want status or agent", *group)
		}
	}

	filter := views.Filter{Search: *search, Status: *status}
	if *preset != "" {
		filter.From, filter.To = views.Preset(*preset).Range(time.Now().In(e.loc))
	}
	var err error
	if filter.From, err = overrideDay(filter.From, *from, e.loc); err != nil {
		return err
	}
	if filter.To, err = overrideDay(filter.To, *to, e.loc); err != nil {
		return err
	}

	if err := e.loaded(ctx); err != nil {
		return err
	}
	leads := filter.Apply(e.state.Cache.Leads(), e.loc)

	if *group == "" {
		printLeads(e.out, leads)
		return nil
	}
	for _, g := range views.Group(leads, by) {
		fmt.Fprintf(e.out, "== %s (%d)\n", g.Key, len(g.Leads))
		printLeads(e.out, g.Leads)
		fmt.Fprintln(e.out)
	}
	return nil
}

func overrideDay(cur views.Date, raw string, loc *time.Location) (views.Date, error) {
	if raw == "" {
		return cur, nil
	}
	if d, err := views.ParseSlash(raw); err == nil {
		return d, nil
	}
	d, err := views.ParseISO(raw, loc)
	if err != nil {
		return views.Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return d, nil
}

func leadFlags(fs *flag.FlagSet, f *actions.LeadForm) {
	fs.StringVar(&f.Name, "name", f.Name, "lead name")
	fs.StringVar(&f.Phone, "phone", f.Phone, "phone number")
	fs.StringVar(&f.Problem, "problem", f.Problem, "problem description")
	fs.StringVar(&f.Date, "date", f.Date, "DD/MM/YYYY")
	fs.StringVar(&f.Time, "time", f.Time, "HH:MM")
	fs.StringVar(&f.Status, "status", f.Status, "status")
	fs.StringVar(&f.Source, "source", f.Source, "WhatsApp, Website, Facebook or Manual")
	fs.StringVar(&f.Priority, "priority", f.Priority, "Low, Medium or High")
	fs.StringVar(&f.AgentID, "agent", f.AgentID, "assigned agent id")
}

func runCreate(ctx context.Context, e *env, args []string) error {
	fs := newFlags("create")
	f := actions.LeadForm{Status: string(crm.StatusPending)}
	leadFlags(fs, &f)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.signedIn(); err != nil {
		return err
	}
	return e.state.Actions.CreateLead(ctx, f)
}

func runStatus(ctx context.Context, e *env, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: crm status <lead-id> <status>")
	}
	if err := e.signedIn(); err != nil {
		return err
	}
	return e.state.Actions.UpdateStatus(ctx, args[0], args[1])
}

// runUpdate starts from the cached record so only changed fields need
// flags.
func runUpdate(ctx context.Context, e *env, args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return errors.New("usage: crm update <lead-id> [flags]")
	}
	id := args[0]

	if err := e.loaded(ctx); err != nil {
		return err
	}
	lead, ok := e.state.Cache.Find(id)
	if !ok {
		return fmt.Errorf("lead %s not found", id)
	}

	f := actions.LeadForm{
		Name:     lead.Name,
		Phone:    lead.Phone,
		Problem:  lead.Problem,
		Date:     lead.Date,
		Time:     lead.Time,
		Status:   string(lead.Status),
		Source:   string(lead.Source),
		Priority: string(lead.Priority),
	}
	if lead.AssignedAgent != nil {
		f.AgentID = string(lead.AssignedAgent.ID)
	}

	fs := newFlags("update")
	leadFlags(fs, &f)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	return e.state.Actions.UpdateDetails(ctx, id, f)
}

func runDelete(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: crm delete <lead-id>")
	}
	if err := e.signedIn(); err != nil {
		return err
	}
	return e.state.Actions.DeleteLead(ctx, args[0])
}

// ======================================================
// VIEWS
// ======================================================

func runCalendar(ctx context.Context, e *env, args []string) error {
	now := time.Now().In(e.loc)

	fs := newFlags("calendar")
	month := fs.String("month", now.Format("2006-01"), "YYYY-MM")
	day := fs.String("day", "", "also list the leads of this day (DD/MM/YYYY)")
	monday := fs.Bool("monday", false, "weeks start on Monday")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := time.Parse("2006-01", *month)
	if err != nil {
		return fmt.Errorf("invalid month %q", *month)
	}
	weekStart := time.Sunday
	if *monday {
		weekStart = time.Monday
	}

	if err := e.loaded(ctx); err != nil {
		return err
	}
	leads := e.state.Cache.Leads()

	printCalendar(e.out, m.Year(), m.Month(), weekStart, views.BucketByDay(leads, e.loc), views.DateOf(now))

	if *day != "" {
		d, err := views.ParseSlash(*day)
		if err != nil {
			return fmt.Errorf("invalid day %q", *day)
		}
		fmt.Fprintf(e.out, "\n%s\n", d.Slash())
		printLeads(e.out, views.LeadsOn(leads, d, e.loc))
		return nil
	}

	fmt.Fprintln(e.out, "\nUpcoming")
	upcoming := views.Upcoming(leads, views.DateOf(now), e.loc)
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}
	printLeads(e.out, upcoming)
	return nil
}

func runStats(ctx context.Context, e *env, _ []string) error {
	if err := e.loaded(ctx); err != nil {
		return err
	}
	printStats(e.out, views.Summarize(e.state.Cache.Leads()))
	return nil
}

// ======================================================
// AI
// ======================================================

func runReply(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: crm reply <lead-id>")
	}
	if err := e.loaded(ctx); err != nil {
		return err
	}
	lead, ok := e.state.Cache.Find(args[0])
	if !ok {
		return fmt.Errorf("lead %s not found", args[0])
	}

	source := string(lead.Source)
	if source == "" {
		source = string(crm.SourceManual)
	}
	reply, err := e.state.API.GenerateLeadResponse(ctx, e.state.Session.Token(), crmapi.LeadResponseRequest{
		Name:    lead.Name,
		Message: lead.Text(),
		Source:  source,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, reply)
	return nil
}

// runSummarize reads "sender: content" lines from -file or stdin.
func runSummarize(ctx context.Context, e *env, args []string) error {
	fs := newFlags("summarize")
	file := fs.String("file", "", "conversation file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.signedIn(); err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	conversation, err := readConversation(r)
	if err != nil {
		return err
	}
	if conversation == "" {
		return errors.New("empty conversation")
	}

	summary, err := e.state.API.SummarizeConversation(ctx, e.state.Session.Token(), conversation)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, summary)
	return nil
}

func readConversation(r io.Reader) (string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sender, content, ok := strings.Cut(line, ":")
		if !ok {
			lines = append(lines, line)
			continue
		}
		m := crm.Message{Sender: strings.TrimSpace(sender), Content: strings.TrimSpace(content)}
		lines = append(lines, m.Sender+": "+m.Content)
	}
	return strings.Join(lines, "\n"), sc.Err()
}
