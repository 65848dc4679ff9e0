package stats

import "math"

// Per-item scaling.
const (
	SpeedPerItem      = 40.0
	HealthPerItem     = 25.0
	ArmorPerItem      = 10.0
	DamagePerItem     = 2.0
	RegenPerItem      = 0.5
	BulletSizePerItem = 0.25

	FireRateBase  = 1.1
	SpreadBase    = 0.9
	ShotSpeedBase = 1.1
)

// Modifiers is the flat stat set derived from item counts. Additive fields
// default to 0, multiplicative ones to 1.
type Modifiers struct {
	Speed      float32 // added to base acceleration
	MaxHealth  float32 // added to base max health
	Armor      float32
	Damage     float32 // added to weapon base damage
	Regen      float32 // regen rate multiplier is 1 + Regen
	BulletSize float32 // projectile scale is 1 + BulletSize
	FireRate   float32 // recoil frames are divided by FireRate
	Spread     float32 // spread is multiplied by Spread
	ShotSpeed  float32 // projectile speed is multiplied by ShotSpeed
}

// Neutral returns the modifiers of an empty inventory.
func Neutral() Modifiers {
	return Modifiers{FireRate: 1, Spread: 1, ShotSpeed: 1}
}

// Aggregate converts item counts into modifiers. It has no state and is
// meant to be called every frame.
func Aggregate(c Counts) Modifiers {
	return Modifiers{
		Speed:      SpeedPerItem * float32(c[Boots]),
		MaxHealth:  HealthPerItem * float32(c[Heart]),
		Armor:      ArmorPerItem * float32(c[Plating]),
		Damage:     DamagePerItem * float32(c[Rounds]),
		Regen:      RegenPerItem * float32(c[Charm]),
		BulletSize: BulletSizePerItem * float32(c[Loupe]),
		FireRate:   pow(FireRateBase, c[Trigger]),
		Spread:     pow(SpreadBase, c[Grip]),
		ShotSpeed:  pow(ShotSpeedBase, c[Coil]),
	}
}

func pow(base float64, n int) float32 {
	return float32(math.Pow(base, float64(n)))
}
