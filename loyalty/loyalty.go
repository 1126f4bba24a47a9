// Package loyalty implements point accrual and the upgrade-only tier ladder.
package loyalty

import "pizzeria-service/models"

// OrderBonus is the flat number of points credited per completed order.
const OrderBonus int64 = 25

const (
	SilverPoints  int64 = 100
	GoldPoints    int64 = 250
	DiamondPoints int64 = 500
)

var rank = map[models.Level]int{
	models.LevelBronze:  0,
	models.LevelSilver:  1,
	models.LevelGold:    2,
	models.LevelDiamond: 3,
}

// Tier returns the level for points, never lower than current.
func Tier(points int64, current models.Level) models.Level {
	if _, ok := rank[current]; !ok {
		current = models.LevelBronze
	}
	earned := models.LevelBronze
	switch {
	case points >= DiamondPoints:
		earned = models.LevelDiamond
	case points >= GoldPoints:
		earned = models.LevelGold
	case points >= SilverPoints:
		earned = models.LevelSilver
	}
	if rank[earned] > rank[current] {
		return earned
	}
	return current
}

// Accrue returns u after one more completed order.
func Accrue(u models.User) models.User {
	u.Points += OrderBonus
	u.OrdersCount++
	u.Level = Tier(u.Points, u.Level)
	return u
}

// PointsToNext is what the profile progress bar shows: points left until the
// next multiple of 100.
func PointsToNext(points int64) int64 {
	if points < 0 {
		points = 0
	}
	return 100 - points%100
}
