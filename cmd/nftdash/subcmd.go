package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"github.com/xyths/hs"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/cache"
	"github.com/xyths/nft-dashboard/config"
	"github.com/xyths/nft-dashboard/feed"
	"github.com/xyths/nft-dashboard/gateway"
	"github.com/xyths/nft-dashboard/monitor"
	"github.com/xyths/nft-dashboard/nft"
	"github.com/xyths/nft-dashboard/notify"
	"github.com/xyths/nft-dashboard/opensea"
	"github.com/xyths/nft-dashboard/server"
	"github.com/xyths/nft-dashboard/store"
)

var (
	serveCommand = &cli.Command{
		Action: serve,
		Name:   "serve",
		Usage:  "Serve the collection gateway and activity feed over HTTP",
		Flags: []cli.Flag{
			ListenFlag,
		},
	}
	collectionCommand = &cli.Command{
		Name:  "collection",
		Usage: "Look up collections",
		Subcommands: []*cli.Command{
			{
				Action:    getCollection,
				Name:      "get",
				Usage:     "Print the collection record of a contract",
				ArgsUsage: "<address>",
			},
		},
	}
	eventCommand = &cli.Command{
		Name:  "event",
		Usage: "Manage marketplace events of the NFTs",
		Subcommands: []*cli.Command{
			{
				Action: monitorEvents,
				Name:   "monitor",
				Usage:  "Poll events of the configured projects, store and dispatch them",
			},
			{
				Action:    printFeed,
				Name:      "feed",
				Usage:     "Print the activity feed of a contract",
				ArgsUsage: "[address]",
				Flags: []cli.Flag{
					FeedTypeFlag,
					FeedFiltersFlag,
					FeedFileFlag,
					FeedLimitFlag,
				},
			},
		},
	}
)

func setup(c *cli.Context) (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(c.String(ConfigFlag.Name))
	if err != nil {
		return cfg, nil, err
	}
	l, err := hs.NewZapLogger(cfg.Log)
	if err != nil {
		if l, err = zap.NewProduction(); err != nil {
			return cfg, nil, err
		}
	}
	return cfg, l.Sugar(), nil
}

// upstream returns nil when no API key is configured, so the gateway serves fallback data.
func upstream(cfg config.Config, sugar *zap.SugaredLogger) (*opensea.Client, gateway.Upstream) {
	if cfg.OpenSea.APIKey == "" {
		sugar.Warn("OPENSEA_API_KEY is not set, collection lookups use mock data")
		return nil, nil
	}
	client := opensea.NewClient(cfg.OpenSea, sugar)
	return client, client
}

func openStore(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) (*store.Store, error) {
	db, err := hs.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	s := store.New(db, config.Duration(cfg.Events.Retention, 0), sugar)
	if err := s.InitIndex(ctx); err != nil {
		s.Close(context.Background())
		return nil, err
	}
	return s, nil
}

func newGateway(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) *gateway.Gateway {
	c := cache.New(cfg.Cache, sugar)
	if m, ok := c.(*cache.Memory); ok {
		go m.Run(ctx, config.Duration(cfg.Cache.Sweep, time.Minute))
	}
	_, up := upstream(cfg, sugar)
	return gateway.New(config.Duration(cfg.Cache.TTL, gateway.DefaultTTL), c, up, sugar)
}

func serve(c *cli.Context) error {
	cfg, sugar, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()
	if listen := c.String(ListenFlag.Name); listen != "" {
		cfg.Listen = listen
	}

	gw := newGateway(c.Context, cfg, sugar)
	opts := server.Options{EventLimit: cfg.Events.Limit, CacheBackend: cfg.Cache.Backend}
	if cfg.Events.Enabled {
		s, err := openStore(c.Context, cfg, sugar)
		if err != nil {
			sugar.Errorf("open event store error: %s, activity feeds will be empty", err)
		} else {
			defer s.Close(context.Background())
			opts.Events = s
		}
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.NewRouter(server.NewAPI(gw, opts, sugar), sugar),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		sugar.Infof("listening on %s", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-c.Context.Done():
		sugar.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func getCollection(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		return errors.New("address is required")
	}
	cfg, sugar, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()
	if !common.IsHexAddress(address) {
		sugar.Warnf("%s is not a hex address", address)
	}
	res := newGateway(c.Context, cfg, sugar).Collection(c.Context, address)
	if _, err := fmt.Fprintln(c.App.Writer, string(res.Body)); err != nil {
		return err
	}
	if res.Status != http.StatusOK {
		return fmt.Errorf("collection lookup failed with status %d", res.Status)
	}
	return nil
}

func monitorEvents(c *cli.Context) error {
	cfg, sugar, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()
	client, _ := upstream(cfg, sugar)
	if client == nil {
		return errors.New("event monitor needs an OpenSea API key")
	}
	s, err := openStore(c.Context, cfg, sugar)
	if err != nil {
		return err
	}
	defer s.Close(context.Background())

	var notifiers []notify.Notifier
	if cfg.Telegram.Token != "" {
		t, err := notify.NewTelegram(cfg.Telegram, sugar)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, t)
	}
	if cfg.Discord.Token != "" {
		d, err := notify.NewDiscord(cfg.Discord, sugar)
		if err != nil {
			return err
		}
		defer d.Close()
		notifiers = append(notifiers, d)
	}

	m, err := monitor.New(cfg.Monitor, client, s, notifiers, sugar)
	if err != nil {
		return err
	}
	return m.Run(c.Context)
}

func printFeed(c *cli.Context) error {
	filter, err := feed.ParseFilter(c.String(FeedTypeFlag.Name))
	if err != nil {
		return err
	}
	var events []nft.Event
	if file := c.String(FeedFileFlag.Name); file != "" {
		if events, err = readEvents(file); err != nil {
			return err
		}
	} else {
		address := c.Args().First()
		if address == "" {
			return errors.New("address or --file is required")
		}
		cfg, sugar, err := setup(c)
		if err != nil {
			return err
		}
		defer func() { _ = sugar.Sync() }()
		s, err := openStore(c.Context, cfg, sugar)
		if err != nil {
			return err
		}
		defer s.Close(context.Background())
		limit := c.Int(FeedLimitFlag.Name)
		if limit <= 0 {
			limit = cfg.Events.Limit
		}
		if events, err = s.RecentEvents(c.Context, gateway.Normalize(address), limit); err != nil {
			return err
		}
	}

	f := feed.New(events)
	f.Select(filter)
	if c.Bool(FeedFiltersFlag.Name) {
		f.ToggleFilters()
	}
	return feed.WriteText(c.App.Writer, f.View(time.Now()))
}

func readEvents(file string) ([]nft.Event, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}
	var events []nft.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse events %s: %w", file, err)
	}
	return events, nil
}
