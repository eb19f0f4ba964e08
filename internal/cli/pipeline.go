package cli

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sdumal/JobParserEzh/internal/config"
	"github.com/sdumal/JobParserEzh/internal/filter"
	"github.com/sdumal/JobParserEzh/internal/monitor"
	"github.com/sdumal/JobParserEzh/internal/source"
	"github.com/sdumal/JobParserEzh/internal/store"
	"github.com/sdumal/JobParserEzh/internal/telegram"
)

func buildSources(descriptors []source.Descriptor) ([]source.Source, error) {
	var sources []source.Source
	for _, d := range descriptors {
		var (
			src source.Source
			err error
		)
		switch d.Type {
		case source.TypeFeed:
			src, err = source.NewFeed(d)
		case source.TypeMarkup:
			src, err = source.NewMarkup(d)
		default:
			err = fmt.Errorf("unknown type %q", d.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", d.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// buildMonitor wires the pipeline. delivery may be nil for commands that
// only scan.
func buildMonitor(cfg *config.Config, db *store.Store, delivery monitor.Delivery) (*monitor.Monitor, error) {
	sources, err := buildSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	return monitor.New(
		db,
		delivery,
		sources,
		filter.NewKeyword(cfg.Keywords),
		filter.NewLocation(cfg.Locations),
		cfg.Digest.Options(),
	), nil
}

func buildDelivery(cfg *config.Config) (*telegram.Client, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return telegram.New(bot, cfg.Telegram.ChatID), nil
}
