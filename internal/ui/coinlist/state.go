package coinlist

import (
	"crypto_tracker/internal/domain"
	"crypto_tracker/internal/ui/model"
)

// CoinListState is the observable screen state. Snapshots are values; every
// change produces a new snapshot through one of the with* reducers below.
type CoinListState struct {
	IsLoading    bool           `json:"is_loading"`
	Coins        []model.CoinUi `json:"coins"`
	SelectedCoin *model.CoinUi  `json:"selected_coin,omitempty"`
}

// NewCoinListState returns the idle initial state.
func NewCoinListState() CoinListState {
	return CoinListState{Coins: []model.CoinUi{}}
}

// FindCoin looks up a loaded coin by id.
func (s CoinListState) FindCoin(id string) (model.CoinUi, bool) {
	for _, c := range s.Coins {
		if c.ID == id {
			return c, true
		}
	}
	return model.CoinUi{}, false
}

func (s CoinListState) withLoading(loading bool) CoinListState {
	s.IsLoading = loading
	return s
}

func (s CoinListState) withCoins(coins []model.CoinUi) CoinListState {
	if coins == nil {
		coins = []model.CoinUi{}
	}
	s.IsLoading = false
	s.Coins = coins
	return s
}

func (s CoinListState) withSelected(coin model.CoinUi) CoinListState {
	s.SelectedCoin = &coin
	return s
}

func (s CoinListState) withSelectedHistory(points []model.DataPoint) CoinListState {
	if s.SelectedCoin == nil {
		return s
	}
	next := s.SelectedCoin.WithHistory(points)
	s.SelectedCoin = &next
	return s
}

// Action is a user intent dispatched to the view model.
type Action interface {
	coinListAction()
}

// OnCoinClick selects a coin and loads its price history.
type OnCoinClick struct {
	Coin model.CoinUi
}

// OnRefresh reloads the coin list.
type OnRefresh struct{}

func (OnCoinClick) coinListAction() {}
func (OnRefresh) coinListAction()   {}

// CoinListEvent is a one-shot notification for the UI.
type CoinListEvent interface {
	coinListEvent()
}

// ErrorEvent reports a failed load. CoinID is empty for list loads.
type ErrorEvent struct {
	CoinID string
	Err    *domain.NetworkError
}

func (ErrorEvent) coinListEvent() {}
