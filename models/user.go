package models

type Level string

const (
	LevelBronze  Level = "BRONZE"
	LevelSilver  Level = "PRATA"
	LevelGold    Level = "OURO"
	LevelDiamond Level = "DIAMANTE"
)

// User is the customer loyalty profile, keyed by phone.
type User struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Points      int64  `json:"points"`
	OrdersCount int    `json:"ordersCount"`
	Level       Level  `json:"level"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (l Level) Valid() bool {
	switch l {
	case LevelBronze, LevelSilver, LevelGold, LevelDiamond:
		return true
	}
	return false
}
