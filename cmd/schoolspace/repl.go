package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/schoolspace/schoolspace/i18n"
	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/config"
	"github.com/schoolspace/schoolspace/internal/models"
	"github.com/schoolspace/schoolspace/internal/nav"
	"github.com/schoolspace/schoolspace/internal/session"
)

type app struct {
	cfg   *config.Config
	svc   services
	store *session.Store
	nav   *nav.Navigator
	lang  string
	out   io.Writer
}

// run reads commands until EOF or quit. Session and route transitions print
// as they happen, the way the app's screens would re-render.
func (a *app) run(in io.Reader) error {
	unsubSession := a.store.Subscribe(func(s session.Session) {
		if !s.SignedIn() {
			fmt.Fprintln(a.out, "-- "+i18n.T(a.lang, "signed_out"))
			return
		}
		fmt.Fprintf(a.out, "-- %s (%s)\n", s.Profile.DisplayName, s.Identity.Email)
	})
	defer unsubSession()
	unsubNav := a.nav.Subscribe(func(r nav.Route) {
		fmt.Fprintf(a.out, "-- @ %s\n", r)
	})
	defer unsubNav()

	fmt.Fprintf(a.out, "schoolspace (%s backend), type 'help'\n", a.cfg.Backend.Mode)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		a.dispatch(fields[0], fields[1:])
	}
}

func (a *app) dispatch(cmd string, args []string) {
	ctx := context.Background()
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, `commands:
  login <email> <password>
  register <email> <password> <password again> <name> [city]
  logout
  reset <email>
  me
  refresh
  search <query>
  feed
  post <text>
  go <route> | back
  quit`)

	case "login":
		if len(args) < 2 {
			a.say("fill_all_fields")
			return
		}
		a.report(a.store.SignIn(ctx, args[0], args[1]))

	case "register":
		if len(args) < 4 {
			a.say("fill_all_fields")
			return
		}
		if args[1] != args[2] {
			a.say("passwords_mismatch")
			return
		}
		in := session.SignUpInput{Email: args[0], Password: args[1], DisplayName: args[3]}
		if len(args) > 4 {
			in.City = strings.Join(args[4:], " ")
		}
		a.report(a.store.SignUp(ctx, in))

	case "logout":
		a.report(a.store.SignOut(ctx))

	case "reset":
		if len(args) == 0 {
			a.say("reset_email_required")
			return
		}
		if err := a.store.ResetPassword(ctx, args[0]); err != nil {
			a.report(err)
			return
		}
		a.say("reset_email_sent")

	case "me":
		s := a.store.Current()
		switch {
		case s.Resolving:
			fmt.Fprintln(a.out, "resolving...")
		case !s.SignedIn():
			a.say("signed_out")
		default:
			p := s.Profile
			fmt.Fprintf(a.out, "%s\n  %s %s %s\n  admin: %v\n",
				p.DisplayName, p.City, p.School, p.ClassLabel, p.IsAdmin)
		}

	case "refresh":
		a.store.RefreshProfile(ctx)

	case "search":
		profiles, err := a.svc.SearchProfiles(ctx, strings.Join(args, " "))
		if err != nil {
			a.report(err)
			return
		}
		for _, p := range profiles {
			fmt.Fprintf(a.out, "%s  %s  %s\n", p.DisplayName, p.School, p.City)
		}

	case "feed":
		posts, err := a.svc.ListPosts(ctx, 0)
		if err != nil {
			a.report(err)
			return
		}
		for _, p := range posts {
			fmt.Fprintf(a.out, "[%s] %s: %s\n", p.CreatedAt.Format("15:04"), p.AuthorName, p.Text)
		}

	case "post":
		s := a.store.Current()
		if !s.SignedIn() {
			a.say("signed_out")
			return
		}
		_, err := a.svc.CreatePost(ctx, backendPost(s, strings.Join(args, " ")))
		if err != nil {
			a.say("post_publish_failed")
		}

	case "go":
		if len(args) == 0 {
			return
		}
		a.nav.Push(nav.Route(args[0]))

	case "back":
		if !a.nav.Back() {
			fmt.Fprintln(a.out, "at root")
		}

	default:
		fmt.Fprintf(a.out, "unknown command %q\n", cmd)
	}
}

// report prints a localized message for an auth failure, or nothing on
// success.
func (a *app) report(err error) {
	if err == nil {
		return
	}
	a.say(string(backend.KindOf(err)))
}

func (a *app) say(code string) {
	fmt.Fprintln(a.out, i18n.T(a.lang, code))
}

// backendPost denormalizes the author into the post the way the feed expects.
// The rest backend overrides these fields server-side.
func backendPost(s session.Session, text string) models.Post {
	return models.Post{
		AuthorID:        s.Identity.ID,
		AuthorName:      s.Profile.DisplayName,
		AuthorAvatarURL: s.Profile.AvatarURL,
		Text:            text,
	}
}
