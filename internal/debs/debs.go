package deps

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bwise1/phishblock/config"
	"github.com/bwise1/phishblock/internal/db"
	"github.com/bwise1/phishblock/internal/events"
	"github.com/bwise1/phishblock/internal/http/chain"
	"github.com/bwise1/phishblock/internal/http/safebrowsing"
	"github.com/bwise1/phishblock/util/storage"
	"github.com/bwise1/phishblock/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB           *db.DB
	Cloudinary   *storage.Cloudinary
	WebSocket    *websockets.WebSocketManager
	Chain        *chain.ChainClient
	SafeBrowsing *safebrowsing.Client
	Events       *events.Bus
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}
	if err := database.EnsureSchema(context.Background()); err != nil {
		log.Panicln("failed to ensure database schema", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()
	chainClient := chain.NewChainClient(cfg.ChainBridgeURL, cfg.ChainAPIKey)
	sbClient := safebrowsing.NewClient(context.Background(), cfg.SafeBrowsingAPIKey)

	bus := events.NewBus()
	bus.Subscribe(chain.NewAnchor(chainClient))
	bus.Subscribe(events.SubscriberFunc(func(e events.Event) {
		msg, err := json.Marshal(e)
		if err != nil {
			log.Println("failed to marshal event", err)
			return
		}
		websocket.Broadcast(msg)
	}))

	deps := Dependencies{
		DB:           database,
		Cloudinary:   cloudinary,
		WebSocket:    websocket,
		Chain:        chainClient,
		SafeBrowsing: sbClient,
		Events:       bus,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
