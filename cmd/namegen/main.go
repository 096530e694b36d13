package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/savednames"
)

const usageText = `usage: namegen <command> [flags]

commands:
  generate  -usage eng -number 3 [-gender m|f] [-surname] [-details] [-save]
            (names already saved are marked with *)
  lookup    -name Emma [-exact]
  related   -name Emma [-usage eng] [-gender f]
  origin    [-first Anna] [-last Nowak]
  save      -name Emma [-meaning "..."]
  saved
  remove    <index>

env: NAMEGEN_SERVER (default http://localhost:8080), NAMEGEN_SAVED_FILE`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(usageText)
	}

	client := newAPIClient(envOr("NAMEGEN_SERVER", "http://localhost:8080"))

	switch args[0] {
	case "generate":
		return runGenerate(ctx, client, args[1:], out)
	case "lookup":
		return runLookup(ctx, client, args[1:], out)
	case "related":
		return runRelated(ctx, client, args[1:], out)
	case "origin":
		return runOrigin(ctx, client, args[1:], out)
	case "save":
		return runSave(args[1:], out)
	case "saved":
		return runSaved(out)
	case "remove":
		return runRemove(args[1:], out)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usageText)
	}
}

func runGenerate(ctx context.Context, c *apiClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	usage := fs.String("usage", "eng", "usage code")
	number := fs.Int("number", 3, "how many names (1-10)")
	gender := fs.String("gender", "", "m, f or empty for any")
	surname := fs.Bool("surname", false, "append a random surname")
	details := fs.Bool("details", false, "look up meanings")
	save := fs.Bool("save", false, "save every generated name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var resp struct {
		Names []domain.NameData `json:"names"`
	}
	err := c.post(ctx, "/api/generate-names", map[string]any{
		"gender":         *gender,
		"usage":          *usage,
		"number":         *number,
		"includeSurname": *surname,
		"includeDetails": *details,
	}, &resp)
	if err != nil {
		return err
	}

	store, err := openSaved()
	if err != nil && *save {
		return err
	}
	for _, n := range resp.Names {
		saved := store != nil && store.Contains(n.Name)
		line := formatName(n)
		if saved {
			line += " *"
		}
		fmt.Fprintln(out, line)
		if *save && !saved {
			if _, err := store.Save(n.Name, n.Meaning); err != nil {
				return err
			}
		}
	}
	return nil
}

func runLookup(ctx context.Context, c *apiClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "name to look up")
	exact := fs.Bool("exact", false, "exact match only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var resp domain.NameData
	if err := c.post(ctx, "/api/lookup-name", map[string]any{"name": *name, "exact": *exact}, &resp); err != nil {
		return err
	}
	fmt.Fprintln(out, formatName(resp))
	return nil
}

func runRelated(ctx context.Context, c *apiClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("related", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "name")
	usage := fs.String("usage", "", "usage code")
	gender := fs.String("gender", "", "m or f")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var resp struct {
		RelatedNames []string `json:"relatedNames"`
	}
	err := c.post(ctx, "/api/related-names", map[string]any{"name": *name, "usage": *usage, "gender": *gender}, &resp)
	if err != nil {
		return err
	}
	if len(resp.RelatedNames) == 0 {
		fmt.Fprintln(out, "no related names")
		return nil
	}
	fmt.Fprintln(out, strings.Join(resp.RelatedNames, ", "))
	return nil
}

func runOrigin(ctx context.Context, c *apiClient, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("origin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var resp domain.OriginResult
	if err := c.post(ctx, "/api/name-origin", map[string]any{"firstName": *first, "lastName": *last}, &resp); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s", resp.CountryOrigin, resp.RegionOrigin)
	if resp.SubRegionOrigin != "" {
		fmt.Fprintf(out, ", %s", resp.SubRegionOrigin)
	}
	fmt.Fprintf(out, ") probability=%.2f score=%.2f\n", resp.ProbabilityCalibrated, resp.Score)
	return nil
}

func runSave(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "name to save")
	meaning := fs.String("meaning", "", "optional meaning")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("save: -name is required")
	}

	store, err := openSaved()
	if err != nil {
		return err
	}
	changed, err := store.Save(strings.TrimSpace(*name), *meaning)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(out, "%q has been added to your saved names\n", *name)
	} else {
		fmt.Fprintf(out, "%q is already saved\n", *name)
	}
	return nil
}

func runSaved(out io.Writer) error {
	store, err := openSaved()
	if err != nil {
		return err
	}
	list := store.List()
	if len(list) == 0 {
		fmt.Fprintln(out, "no saved names")
		return nil
	}
	for i, n := range list {
		if n.Meaning != "" {
			fmt.Fprintf(out, "%d. %s - %s\n", i+1, n.Name, n.Meaning)
		} else {
			fmt.Fprintf(out, "%d. %s\n", i+1, n.Name)
		}
	}
	return nil
}

func runRemove(args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("remove: expected the 1-based index shown by 'saved'")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("remove: invalid index %q", args[0])
	}

	store, err := openSaved()
	if err != nil {
		return err
	}
	removed, err := store.Remove(idx - 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %s\n", removed.Name)
	return nil
}

// formatName renders one name; generate marks names already saved with " *".
func formatName(n domain.NameData) string {
	line := n.Name
	if n.Gender != "" {
		line += " [" + n.Gender + "]"
	}
	if n.Usage != "" {
		line += " (" + n.Usage + ")"
	}
	if n.Meaning != "" {
		line += " - " + n.Meaning
	}
	return line
}

func openSaved() (*savednames.Store, error) {
	path := os.Getenv("NAMEGEN_SAVED_FILE")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".namegen", "saved.json")
	}
	store, err := savednames.Open(path)
	if err != nil && store == nil {
		return nil, err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	return store, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
