// Package dispatch runs player actions against the registries: it assigns and
// advances missions, triggers small events and resolves the mini-games they open.
// Every operation persists its changes in one transaction and returns the packets
// to send to the player.
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Crownicles/Crownicles-sub006/internal/game"
	"github.com/Crownicles/Crownicles-sub006/internal/game/fightpet"
	"github.com/Crownicles/Crownicles-sub006/internal/game/mission"
	"github.com/Crownicles/Crownicles-sub006/internal/game/smallevent"
	"github.com/Crownicles/Crownicles-sub006/internal/game/tables"
	"github.com/Crownicles/Crownicles-sub006/internal/game/witch"
	"github.com/Crownicles/Crownicles-sub006/internal/i18n"
	"github.com/Crownicles/Crownicles-sub006/internal/models"
	"github.com/Crownicles/Crownicles-sub006/internal/random"
	"github.com/Crownicles/Crownicles-sub006/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const DefaultMaxMissionSlots = 3

// Options configures a Dispatcher. Zero values pick production defaults.
type Options struct {
	Logger          *zap.Logger
	Rand            random.Source
	Tables          *tables.Tables
	Now             func() time.Time
	MaxMissionSlots int
	Language        language.Tag
}

type Dispatcher struct {
	db       *sql.DB
	log      *zap.Logger
	tracer   trace.Tracer
	rnd      random.Source
	now      func() time.Time
	tables   *tables.Tables
	maxSlots int
	lang     language.Tag

	missions     *game.Registry[mission.Mission]
	smallEvents  *game.Registry[smallevent.SmallEvent]
	witchActions *game.Registry[witch.Action]
	fightActions *game.Registry[fightpet.Action]
	sessions     *Sessions
}

func New(db *sql.DB, opts Options) (*Dispatcher, error) {
	if db == nil {
		return nil, errors.New("dispatch: nil db")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		rnd, err := random.NewFromCrypto()
		if err != nil {
			return nil, err
		}
		opts.Rand = rnd
	}
	if opts.Tables == nil {
		t, err := tables.Load()
		if err != nil {
			return nil, err
		}
		opts.Tables = t
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxMissionSlots <= 0 {
		opts.MaxMissionSlots = DefaultMaxMissionSlots
	}
	if opts.Language == language.Und {
		opts.Language = i18n.Default()
	}
	return &Dispatcher{
		db:           db,
		log:          opts.Logger.Named("dispatch"),
		tracer:       tracing.Tracer("crownicles/dispatch"),
		rnd:          opts.Rand,
		now:          opts.Now,
		tables:       opts.Tables,
		maxSlots:     opts.MaxMissionSlots,
		lang:         opts.Language,
		missions:     mission.NewRegistry(),
		smallEvents:  smallevent.NewRegistry(),
		witchActions: witch.NewRegistry(),
		fightActions: fightpet.NewRegistry(),
		sessions:     NewSessions(opts.Now),
	}, nil
}

func (d *Dispatcher) Missions() *game.Registry[mission.Mission] { return d.missions }
func (d *Dispatcher) SmallEvents() *game.Registry[smallevent.SmallEvent] { return d.smallEvents }
func (d *Dispatcher) WitchActions() *game.Registry[witch.Action] { return d.witchActions }
func (d *Dispatcher) FightActions() *game.Registry[fightpet.Action] { return d.fightActions }
func (d *Dispatcher) Sessions() *Sessions { return d.sessions }
func (d *Dispatcher) Tables() *tables.Tables { return d.tables }

// span starts a span for op; the returned func records err on it and ends it.
func (d *Dispatcher) span(ctx context.Context, op string, playerID int64) (context.Context, func(*error)) {
	ctx, sp := d.tracer.Start(ctx, "dispatch."+op, trace.WithAttributes(attribute.Int64("player.id", playerID)))
	return ctx, func(errp *error) { tracing.End(sp, errp) }
}

// inTx runs fn in a transaction, committing when it returns nil.
func (d *Dispatcher) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// languageOf returns the account language, falling back to the server default.
func (d *Dispatcher) languageOf(ctx context.Context, q models.Querier, playerID int64) language.Tag {
	acc, err := models.GetAccountByID(ctx, q, playerID)
	if err != nil {
		return d.lang
	}
	return i18n.ResolveTag(acc.Language, d.lang)
}

func missionPlayer(p *models.Player) mission.Player {
	return mission.Player{ID: p.ID, Level: p.Level, MapID: p.MapID, ClassID: p.ClassID}
}
