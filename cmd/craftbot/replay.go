package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cfoust/craftbot/pkg/bot"
	"github.com/cfoust/craftbot/pkg/capture"
	"github.com/cfoust/craftbot/pkg/config"
	"github.com/cfoust/craftbot/pkg/protocol"
	"github.com/cfoust/craftbot/pkg/snapshot"

	"github.com/go-redis/redis/v9"
	"github.com/repeale/fp-go/option"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// replayConn stands in for the server. Nothing the bot sends goes anywhere.
type replayConn struct {
	sent int
}

func (c *replayConn) Write(packet protocol.Packet) error {
	c.sent++
	return nil
}

func openStore(ctx context.Context, cfg config.Snapshots) (snapshot.Store, error) {
	if cfg.Redis != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis,
		})

		err := client.Ping(ctx).Err()
		if err != nil {
			return nil, fmt.Errorf("could not reach redis at %s: %w", cfg.Redis, err)
		}

		return snapshot.NewRedisStore(client), nil
	}

	return snapshot.FSStore(cfg.Directory), nil
}

func replayCommand() error {
	cfg, err := config.Process(CLI.Replay.Configs)
	if err != nil {
		return err
	}

	gameVersion := cfg.Version
	if CLI.Replay.GameVersion != "" {
		gameVersion = CLI.Replay.GameVersion
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	reader, err := capture.Open(CLI.Replay.Capture)
	if err != nil {
		return fmt.Errorf("could not open capture: %w", err)
	}
	defer reader.Close()

	var recorder bot.Recorder
	if cfg.Capture.Directory != "" {
		err = os.MkdirAll(cfg.Capture.Directory, 0755)
		if err != nil {
			return fmt.Errorf("failed to make capture dir: %w", err)
		}

		base := filepath.Base(CLI.Replay.Capture)
		writer, err := capture.Create(filepath.Join(cfg.Capture.Directory, "replay-"+base))
		if err != nil {
			return err
		}
		defer writer.Close()
		recorder = writer
	}

	conn := &replayConn{}
	logger := log.Logger
	b, err := bot.New(ctx, conn, bot.Options{
		Name:     cfg.Username,
		Version:  gameVersion,
		Brand:    cfg.Brand,
		Logger:   &logger,
		Recorder: recorder,

		WaitTimeout: opt.Some(time.Duration(cfg.Creative.WaitTimeout)),
		FlightSpeed: cfg.Creative.FlightSpeed,
	})
	if err != nil {
		return err
	}
	defer b.Cancel()

	received := 0
	for {
		if b.IsDone() {
			return b.Ctx().Err()
		}

		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("could not read capture: %w", err)
		}

		// What we sent last time is regenerated by the bot
		if record.Direction != capture.Inbound {
			continue
		}

		packet, err := record.Packet()
		if err != nil {
			log.Warn().Err(err).Msg("skipping unreadable record")
			continue
		}

		received++
		err = b.HandlePacket(packet)
		if err != nil {
			return fmt.Errorf("packet %d (%s): %w", received, packet.Kind(), err)
		}
	}

	log.Info().
		Int("received", received).
		Int("sent", conn.sent).
		Dur("elapsed", time.Since(b.Started())).
		Msg("replay finished")

	state := b.Game.State()

	if CLI.Replay.Snapshot != "" {
		store, err := openStore(ctx, cfg.Snapshots)
		if err != nil {
			return err
		}

		err = snapshot.Save(ctx, store, CLI.Replay.Snapshot, snapshot.Snapshot{
			Bot:     cfg.Username,
			Version: gameVersion,
			Taken:   time.Now(),
			State:   state,
		})
		if err != nil {
			return fmt.Errorf("could not save snapshot: %w", err)
		}
		log.Info().Str("key", CLI.Replay.Snapshot).Msg("saved snapshot")
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(state)
}
