package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/maxpot/internal/sanitize"

	log "github.com/sirupsen/logrus"
)

var ErrNoDocument = errors.New("no stored document for user")

// ExportCmd dumps a user's stored document exactly as persisted.
type ExportCmd struct {
	User   string `arg:"" help:"User id."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(cliCtx *Context) error {
	ctx := context.Background()
	repo, _, closeDB, err := cliCtx.openStateRepo(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	document, err := repo.LoadDocument(ctx, c.User)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("%w: %s", ErrNoDocument, c.User)
	}

	var docJson bytes.Buffer
	if err := json.Indent(&docJson, document, "", "  "); err != nil {
		log.Warnf("stored document for [%s] is not valid json, exporting it unchanged: %s", c.User, err)
		docJson.Reset()
		docJson.Write(document)
	}

	if c.Output == "" {
		_, err = fmt.Fprintln(cliCtx.Out, docJson.String())
		return err
	}
	if err := os.WriteFile(c.Output, docJson.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write [%s]: %w", c.Output, err)
	}
	log.Infof("exported [%s] to %s", c.User, c.Output)
	return nil
}

// ImportCmd sanitizes a document file and stores it for a user, replacing the current one.
type ImportCmd struct {
	User string `arg:"" help:"User id."`
	File string `arg:"" type:"existingfile" help:"Document JSON file."`
}

func (c *ImportCmd) Run(cliCtx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read [%s]: %w", c.File, err)
	}

	ctx := context.Background()
	repo, calendar, closeDB, err := cliCtx.openStateRepo(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	state := sanitize.Decode(data, calendar.TodayKey())
	if err := repo.Save(ctx, c.User, state, calendar.Now()); err != nil {
		return err
	}

	log.Infof("imported %d days for [%s]", len(state.History), c.User)
	return nil
}
