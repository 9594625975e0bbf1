package main

import (
	"context"
	"fmt"
	"os"

	"prados-legal-be/internal/config"
	"prados-legal-be/internal/model"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/implementation"
	"prados-legal-be/pkg/database"
	"prados-legal-be/pkg/events"
	pktNats "prados-legal-be/pkg/nats"
	"prados-legal-be/pkg/rag/corpus"
	"prados-legal-be/pkg/rag/store"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

// runtime is shared by every command.
type runtime struct {
	ctx    context.Context
	store  store.Store
	events events.Publisher
}

// announce tells running servers the corpus changed so they drop their
// cached copy.
func (r *runtime) announce(title string, wrote bool) {
	if !wrote {
		return
	}
	if err := r.events.Publish(r.ctx, events.KnowledgeReseeded(title, wrote)); err != nil {
		color.Yellow("⚠️  Could not announce corpus change: %v", err)
	}
}

type SeedCmd struct {
	Force bool `help:"Load the base corpus even when the store is not empty"`
}

func (c *SeedCmd) Run(r *runtime) error {
	count, err := r.store.Count(r.ctx)
	if err != nil {
		return err
	}
	if count > 0 && !c.Force {
		color.Yellow("Store already holds %d documents, skipping (use --force)", count)
		return nil
	}

	color.Cyan("🔄 Loading base legal corpus...")
	n, err := corpus.Load(r.ctx, r.store)
	if err != nil {
		return err
	}
	for _, e := range corpus.Base[:n] {
		color.Green("  ✓ %s", e.Title)
	}
	r.announce("*", n > 0)
	color.Green("✅ %d documents loaded", n)
	return nil
}

type ReseedCmd struct{}

func (c *ReseedCmd) Run(r *runtime) error {
	wrote, err := corpus.ReseedOfficial(r.ctx, r.store)
	if err != nil {
		return err
	}
	r.announce(corpus.OfficialTitle, wrote)
	if wrote {
		color.Green("✅ Reseeded %q", corpus.OfficialTitle)
	} else {
		color.Cyan("%q is up to date", corpus.OfficialTitle)
	}
	return nil
}

type DedupeCmd struct{}

func (c *DedupeCmd) Run(r *runtime) error {
	removed, err := corpus.Dedupe(r.ctx, r.store)
	if err != nil {
		return err
	}
	r.announce("*", removed > 0)
	color.Green("✅ Removed %d duplicate documents", removed)
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Confirm deleting every knowledge document" short:"y"`
}

func (c *ClearCmd) Run(r *runtime) error {
	if !c.Yes {
		return fmt.Errorf("refusing to clear the knowledge store without --yes")
	}
	if err := r.store.Clear(r.ctx); err != nil {
		return err
	}
	r.announce("*", true)
	color.Green("🗑️  Knowledge store cleared")
	return nil
}

type CountCmd struct{}

func (c *CountCmd) Run(r *runtime) error {
	n, err := r.store.Count(r.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("📊 %d documents\n", n)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON array of {title, body, metadata} entries" type:"existingfile"`
}

func (c *ImportCmd) Run(r *runtime) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := corpus.Import(r.ctx, r.store, f)
	if err != nil {
		return err
	}
	r.announce("*", n > 0)
	color.Green("✅ Imported %d documents from %s", n, c.File)
	return nil
}

var cli struct {
	Seed       SeedCmd   `cmd:"" help:"Load the base legal corpus"`
	Reseed     ReseedCmd `cmd:"" help:"Update the official Prados de Paraíso document"`
	Dedupe     DedupeCmd `cmd:"" help:"Collapse documents sharing a title into the newest"`
	Clear      ClearCmd  `cmd:"" help:"Delete every knowledge document"`
	Count      CountCmd  `cmd:"" help:"Print the number of knowledge documents"`
	ImportJSON ImportCmd `cmd:"" name:"import-json" help:"Import documents from a JSON export"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("knowledge"),
		kong.Description("Maintains the legal knowledge corpus."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("❌ Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.KnowledgeDocument{}); err != nil {
		color.Red("❌ Failed to migrate knowledge table: %v", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, logger.NewNopLogger())
		if err != nil {
			color.Yellow("⚠️  NATS unavailable, running servers keep their cache until it expires: %v", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	err = kctx.Run(&runtime{
		ctx:    context.Background(),
		store:  implementation.NewKnowledgeStore(db),
		events: publisher,
	})
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
}
