package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethanbaker/tubescript/pkg/export"
	"github.com/ethanbaker/tubescript/pkg/history"
	"github.com/ethanbaker/tubescript/pkg/orchestrator"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/ethanbaker/tubescript/pkg/utils"
)

const helpText = `Commands:
  login <email>            open a session
  logout                   close the session
  generate                 create a new script and its SEO metadata
  history                  list recent results
  show <n|id>              open a result from history
  remove <n|id>            delete a result from history
  edit <section>           rewrite one section of the open script
  text                     print the script as plain text
  tags                     print the tags as CSV
  export md [path]         save the open script as markdown
  export ics <YYYY-MM-DD HH:MM>  save a publication reminder
  export notion            create a Notion page
  share [url]              print share links
  status                   show backend status (needs API_KEY)
  quit                     exit`

// errNothingOpen is returned by commands that need an open result
var errNothingOpen = errors.New("no script is open, use 'generate' or 'show'")

type cli struct {
	cfg     *utils.Config
	client  *sdk.Client
	orch    *orchestrator.Orchestrator
	history *history.Cache
	in      *bufio.Scanner
	out     io.Writer

	current *script.HistoryItem
}

func (a *cli) dispatch(ctx context.Context, name, args string) error {
	switch name {
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.orch.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "generate":
		return a.generate(ctx)
	case "history":
		return a.list()
	case "show":
		return a.show(args)
	case "remove":
		return a.remove(args)
	case "edit":
		return a.edit(args)
	case "text":
		return a.withCurrent(func(item *script.HistoryItem) error {
			fmt.Fprintln(a.out, export.PlainText(item.Script))
			return nil
		})
	case "tags":
		return a.withCurrent(func(item *script.HistoryItem) error {
			tags, err := export.TagsCSV(item.Seo)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, tags)
			return nil
		})
	case "export":
		return a.export(ctx, args)
	case "share":
		return a.share(args)
	case "status":
		return a.status(ctx)
	default:
		return fmt.Errorf("unknown command '%s', type 'help'", name)
	}
}

func (a *cli) onState(s orchestrator.State) {
	switch s {
	case orchestrator.StateSubmittingScript:
		fmt.Fprintln(a.out, "Writing script...")
	case orchestrator.StateSubmittingSeo:
		fmt.Fprintln(a.out, "Optimizing SEO...")
	}
}

func (a *cli) login(ctx context.Context, email string) error {
	if email == "" {
		email = a.ask("Email", "")
	}
	if err := a.orch.Login(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", email)
	return nil
}

func (a *cli) generate(ctx context.Context) error {
	req := script.GenerationRequest{
		Topic: a.ask("Topic", ""),
	}

	fmt.Fprintln(a.out, "Templates:")
	for i, t := range script.Templates() {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, t.Label())
	}
	req.Template = a.chooseTemplate(a.ask("Template", "4"))

	req.Language = a.ask("Language", "English")
	req.Tone = a.ask("Tone", "Engaging")
	req.TargetAudience = a.ask("Audience", "General audience")
	if req.Template == script.TemplateAffiliateReview || req.Template == script.TemplateBookPromo {
		req.ProductName = a.ask("Product or book name", "")
	}

	result, err := a.orch.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, sdk.ErrForbidden) || errors.Is(err, sdk.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Your session has expired. Use 'login <email>'.")
		}
		return err
	}
	if result.SeoErr != nil {
		fmt.Fprintln(a.out, "SEO metadata could not be generated, showing defaults.")
	}

	item := result.Item
	if item.ID == "" {
		item = script.HistoryItem{Script: result.Script, Seo: result.Seo, Topic: req.Topic, Timestamp: time.Now()}
	}
	a.current = &item

	fmt.Fprintln(a.out, export.Markdown(item.Script, item.Seo))
	return nil
}

func (a *cli) chooseTemplate(answer string) script.Template {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(script.Templates()) {
		return script.Templates()[n-1]
	}
	if t, err := script.ParseTemplate(answer); err == nil {
		return t
	}
	return script.TemplateGeneral
}

func (a *cli) list() error {
	items := a.history.List()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "History is empty.")
		return nil
	}

	for i, item := range items {
		fmt.Fprintf(a.out, "%d. %s  %s  (%s)\n", i+1, item.Timestamp.Local().Format("2006-01-02 15:04"), item.Script.Title, item.Topic)
	}
	return nil
}

// resolve finds a history item by 1-based position or id
func (a *cli) resolve(ref string) (script.HistoryItem, error) {
	if ref == "" {
		return script.HistoryItem{}, errors.New("missing history reference")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		items := a.history.List()
		if n < 1 || n > len(items) {
			return script.HistoryItem{}, history.ErrNotFound
		}
		return items[n-1], nil
	}
	return a.history.Load(ref)
}

func (a *cli) show(ref string) error {
	item, err := a.resolve(ref)
	if err != nil {
		return err
	}

	a.current = &item
	fmt.Fprintln(a.out, export.Markdown(item.Script, item.Seo))
	return nil
}

func (a *cli) remove(ref string) error {
	item, err := a.resolve(ref)
	if err != nil {
		return err
	}

	if err := a.history.Remove(item.ID); err != nil {
		return err
	}
	if a.current != nil && a.current.ID == item.ID {
		a.current = nil
	}

	fmt.Fprintf(a.out, "Removed '%s'.\n", item.Script.Title)
	return nil
}

func (a *cli) edit(args string) error {
	return a.withCurrent(func(item *script.HistoryItem) error {
		n, err := strconv.Atoi(args)
		if err != nil {
			return fmt.Errorf("usage: edit <section number>")
		}

		i := n - 1
		if i < 0 || i >= len(item.Script.Sections) {
			return fmt.Errorf("no section %d", n)
		}

		section := item.Script.Sections[i]
		section.Title = a.ask("Title", section.Title)
		section.Content = a.ask("Content", section.Content)

		edited, err := item.Script.WithSection(i, section)
		if err != nil {
			return err
		}

		if err := a.orch.UpdateScript(edited); err != nil && !errors.Is(err, history.ErrNotFound) {
			return err
		}
		item.Script = edited

		fmt.Fprintln(a.out, "Section updated.")
		return nil
	})
}

func (a *cli) export(ctx context.Context, args string) error {
	format, rest, _ := strings.Cut(args, " ")
	rest = strings.TrimSpace(rest)

	return a.withCurrent(func(item *script.HistoryItem) error {
		switch strings.ToLower(format) {
		case "md", "markdown":
			path := rest
			if path == "" {
				path = export.Filename(item.Script, "md")
			}
			return a.writeFile(path, export.Markdown(item.Script, item.Seo))

		case "ics":
			publishAt, err := time.ParseInLocation("2006-01-02 15:04", rest, time.Local)
			if err != nil {
				return fmt.Errorf("usage: export ics <YYYY-MM-DD HH:MM>")
			}
			return a.writeFile(export.Filename(item.Script, "ics"), export.Reminder(item.Script, item.Seo, publishAt))

		case "notion":
			exporter, err := export.NewNotionExporterFromConfig(a.cfg)
			if err != nil {
				return err
			}
			url, err := exporter.Export(ctx, item.Script, item.Seo)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s\n", url)
			return nil

		default:
			return fmt.Errorf("usage: export md|ics|notion")
		}
	})
}

func (a *cli) share(pageURL string) error {
	return a.withCurrent(func(item *script.HistoryItem) error {
		if pageURL == "" {
			pageURL = "https://www.youtube.com"
		}

		links := export.ShareLinks(item.Script, pageURL)
		fmt.Fprintf(a.out, "Twitter:  %s\nLinkedIn: %s\n", links.Twitter, links.LinkedIn)
		return nil
	})
}

func (a *cli) status(ctx context.Context) error {
	status, err := a.client.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Provider: %s (%s)\nLimiter:  %s, %d per %s\nRetries:  %d attempts\nSessions: %d\nUptime:   %s\n",
		status.Provider, status.Model,
		status.Limiter, status.RateLimit, status.RateWindow,
		status.MaxAttempts,
		status.Sessions,
		time.Duration(status.UptimeSeconds)*time.Second,
	)
	return nil
}

func (a *cli) withCurrent(fn func(item *script.HistoryItem) error) error {
	if a.current == nil {
		return errNothingOpen
	}
	return fn(a.current)
}

func (a *cli) writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	fmt.Fprintf(a.out, "Saved %s\n", path)
	return nil
}

// ask prompts for a value; an empty answer keeps def
func (a *cli) ask(label, def string) string {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}

	if !a.in.Scan() {
		return def
	}
	if answer := strings.TrimSpace(a.in.Text()); answer != "" {
		return answer
	}
	return def
}
