// Command cmsctl inspects the hotel catalog and the content event log
// without starting the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"storefront-cms/internal/catalog"
	"storefront-cms/pkg/events"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}
	if err := newApp().Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "cmsctl",
		Usage: "Storefront catalog and content history tools",
		Commands: []*cli.Command{
			catalogCommand(),
			eventsCommand(),
		},
	}
}

func out(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func catalogCommand() *cli.Command {
	fileFlag := &cli.StringFlag{Name: "file", Sources: cli.EnvVars("CATALOG_FILE"), Usage: "YAML catalog seed (default: embedded catalog)"}
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the published catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List hotels",
				Flags: []cli.Flag{fileFlag, &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					store, err := catalog.Open(c.String("file"))
					if err != nil {
						return err
					}
					hotels, err := store.List(ctx)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out(c), hotels)
					}
					tw := tabwriter.NewWriter(out(c), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tSLUG\tNAME\tCITY\tROOMS")
					for _, h := range hotels {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", h.ID, h.Slug, h.Name, h.City, len(h.Rooms))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "show",
				Usage:     "Show one hotel by slug or id",
				ArgsUsage: "<slug|id>",
				Flags:     []cli.Flag{fileFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					ident := c.Args().First()
					if ident == "" {
						return cli.Exit("a slug or id is required", 2)
					}
					store, err := catalog.Open(c.String("file"))
					if err != nil {
						return err
					}
					h, err := store.Resolve(ctx, ident)
					if err != nil {
						return err
					}
					return printJSON(out(c), h)
				},
			},
		},
	}
}

func eventsCommand() *cli.Command {
	dbFlag := &cli.StringFlag{Name: "db", Sources: cli.EnvVars("EVENTS_DB_PATH"), Required: true, Usage: "SQLite event database"}
	return &cli.Command{
		Name:  "events",
		Usage: "Read the content event log",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List events, newest first, or one hotel's history oldest first",
				Flags: []cli.Flag{
					dbFlag,
					&cli.Int64Flag{Name: "hotel", Usage: "only events for this hotel id"},
					&cli.IntFlag{Name: "limit", Value: 50},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					store, err := events.OpenSQLite(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer store.Close()

					var evs []events.StoredEvent
					if id := c.Int64("hotel"); id > 0 {
						evs, err = store.ListByHotel(ctx, id)
					} else {
						evs, err = store.List(ctx, int(c.Int("limit")))
					}
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out(c), evs)
					}
					tw := tabwriter.NewWriter(out(c), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "SEQ\tAT\tTYPE\tHOTEL\tSESSION\tVERSION\tFIELDS")
					for _, e := range evs {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%v\n", e.Seq, e.At.Format(time.RFC3339), e.Type,
							e.HotelID, e.SessionID, versionString(e.Version), e.Fields)
					}
					return tw.Flush()
				},
			},
			{
				Name:      "replay",
				Usage:     "Rebuild a hotel's editing summary from its events",
				ArgsUsage: "<hotel id>",
				Flags:     []cli.Flag{dbFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := strconv.ParseInt(c.Args().First(), 10, 64)
					if err != nil || id <= 0 {
						return cli.Exit("a numeric hotel id is required", 2)
					}
					store, err := events.OpenSQLite(ctx, c.String("db"))
					if err != nil {
						return err
					}
					defer store.Close()
					state, err := store.Replay(ctx, id)
					if err != nil {
						return err
					}
					return printJSON(out(c), state)
				},
			},
		},
	}
}

func versionString(v uint64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatUint(v, 10)
}
