package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liuham-dynamics/Peer-Infrastructure/cidlink"
	"github.com/liuham-dynamics/Peer-Infrastructure/cmd/kbucketctl/internal/bootstrap"
	kbucket "github.com/liuham-dynamics/Peer-Infrastructure"
	"github.com/liuham-dynamics/Peer-Infrastructure/maddr"
	"github.com/liuham-dynamics/Peer-Infrastructure/peerid"
	"github.com/liuham-dynamics/Peer-Infrastructure/protocode"
)

func main() {
	app := &cli.App{
		Name:  "kbucketctl",
		Usage: "build a routing table from a seed-contact file and report on it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a bootstrap config file",
				Value:   "config/kbucketctl.yaml",
			},
			&cli.IntFlag{
				Name:  "closest",
				Usage: "number of nearest contacts to report",
				Value: 5,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := bootstrap.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	localID, err := resolveLocalID(cfg.Table.LocalID)
	if err != nil {
		return err
	}

	table, err := kbucket.New(kbucket.Config{
		LocalID:           localID,
		ContactsPerBucket: cfg.Table.ContactsPerBucket,
		ContactsToPing:    cfg.Table.ContactsToPing,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	table.OnAdded(func(contact kbucket.Contact) {
		logger.Debug("contact added", zap.Stringer("id", peerid.Identifier(contact.Id)))
	})
	table.OnReviewRequested(func(e kbucket.ReviewEvent) {
		logger.Info("review requested",
			zap.Int("oldest_count", len(e.Oldest)),
			zap.Stringer("newest_id", peerid.Identifier(e.Newest.Id)))
	})

	for _, seed := range cfg.Contacts {
		contact, err := seedToContact(seed)
		if err != nil {
			logger.Warn("skipping malformed seed contact", zap.String("id", seed.ID), zap.Error(err))
			continue
		}

		if _, err := table.Add(contact); err != nil {
			logger.Warn("rejected seed contact", zap.String("id", seed.ID), zap.Error(err))
		}
	}

	logger.Info("routing table built",
		zap.Stringer("local_id", localID),
		zap.Int("count", table.Count()))

	reportClosest(logger, table, localID, c.Int("closest"))
	reportSelfLink(logger, localID, table)

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build()
}

func resolveLocalID(encoded string) (peerid.Identifier, error) {
	if encoded == "" {
		return peerid.Generate()
	}

	return peerid.FromBase58(encoded)
}

func seedToContact(seed bootstrap.ContactS) (kbucket.Contact, error) {
	id, err := peerid.FromBase58(seed.ID)
	if err != nil {
		return kbucket.Contact{}, err
	}

	addr, err := maddr.Parse(seed.Address)
	if err != nil {
		return kbucket.Contact{}, err
	}

	protocol, _ := protocode.Lookup(seed.Protocol)

	return kbucket.Contact{
		Id:      id,
		Address: addr,
		Metadata: map[string]any{
			"protocol": protocol,
		},
	}, nil
}

func reportClosest(logger *zap.Logger, table *kbucket.RoutingTable, localID []byte, n int) {
	for i, contact := range table.ClosestN(localID, n) {
		logger.Info("closest contact",
			zap.Int("rank", i),
			zap.Stringer("id", peerid.Identifier(contact.Id)),
			zap.Stringer("address", contact.Address))
	}
}

func reportSelfLink(logger *zap.Logger, localID []byte, table *kbucket.RoutingTable) {
	closest := table.ClosestN(localID, 1)
	if len(closest) == 0 {
		return
	}

	c, err := cidlink.Encode(localID, closest[0].Address)
	if err != nil {
		logger.Warn("failed to encode self link", zap.Error(err))
		return
	}

	logger.Info("self link", zap.String("cid", c.String()))
}
