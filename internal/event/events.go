package event

import (
	"time"

	"github.com/google/uuid"
)

// Type defines the type of a journal event.
type Type uint16

const (
	EvCoinsLoaded Type = iota + 1
	EvCoinSelected
	EvHistoryLoaded
	EvLoadFailed
)

func (t Type) String() string {
	switch t {
	case EvCoinsLoaded:
		return "COINS_LOADED"
	case EvCoinSelected:
		return "COIN_SELECTED"
	case EvHistoryLoaded:
		return "HISTORY_LOADED"
	case EvLoadFailed:
		return "LOAD_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Event is the interface for all journal events.
type Event interface {
	GetID() string
	GetTs() int64
	GetType() Type
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	ID string `json:"id"`
	Ts int64  `json:"ts"` // Unix Micro
}

func (e BaseEvent) GetID() string { return e.ID }
func (e BaseEvent) GetTs() int64  { return e.Ts }

// NewBase stamps a new event id and timestamp.
func NewBase(now time.Time) BaseEvent {
	return BaseEvent{ID: uuid.NewString(), Ts: now.UnixMicro()}
}

// CoinsLoadedEvent records a successful list load.
type CoinsLoadedEvent struct {
	BaseEvent
	Count int `json:"count"`
}

func (e CoinsLoadedEvent) GetType() Type { return EvCoinsLoaded }

// CoinSelectedEvent records a user selection.
type CoinSelectedEvent struct {
	BaseEvent
	CoinID string `json:"coin_id"`
}

func (e CoinSelectedEvent) GetType() Type { return EvCoinSelected }

// HistoryLoadedEvent records a history load merged into the selection.
type HistoryLoadedEvent struct {
	BaseEvent
	CoinID string `json:"coin_id"`
	Points int    `json:"points"`
}

func (e HistoryLoadedEvent) GetType() Type { return EvHistoryLoaded }

// LoadFailedEvent records a failed fetch.
type LoadFailedEvent struct {
	BaseEvent
	Op     string `json:"op"` // "coins" or "history"
	CoinID string `json:"coin_id,omitempty"`
	Kind   string `json:"kind"`
}

func (e LoadFailedEvent) GetType() Type { return EvLoadFailed }
