// Package stats defines the stacking items and the pure aggregation of
// owned item counts into stat modifiers.
package stats

import "math/rand/v2"

// Item identifies a stacking item.
type Item uint8

const (
	Boots Item = iota
	Heart
	Plating
	Rounds
	Charm
	Loupe
	Trigger
	Grip
	Coil

	ItemCount
)

var itemNames = [ItemCount]string{
	Boots:   "Traveler's Boots",
	Heart:   "Euan's Heart",
	Plating: "Giant's Plating",
	Rounds:  "Hollow Point Rounds",
	Charm:   "Troll's Charm",
	Loupe:   "Jeweler's Loupe",
	Trigger: "Hair Trigger",
	Grip:    "Steady Grip",
	Coil:    "Rail Coil",
}

var itemDescriptions = [ItemCount]string{
	Boots:   "Increased Speed",
	Heart:   "Increased Max Health",
	Plating: "Increased Armor",
	Rounds:  "Increased Damage",
	Charm:   "Increased Health Regeneration",
	Loupe:   "Increased Bullet Size",
	Trigger: "Increased Fire Rate",
	Grip:    "Reduced Spread",
	Coil:    "Increased Shot Speed",
}

// NormalLoot is the pool for normal crates.
var NormalLoot = []Item{Boots, Heart, Plating, Rounds, Charm}

// RareLoot is the pool for rare crates.
var RareLoot = []Item{Loupe, Trigger, Grip, Coil}

// String returns the display name.
func (i Item) String() string {
	if i >= ItemCount {
		return "Unknown"
	}
	return itemNames[i]
}

// Description returns the loot popup text.
func (i Item) Description() string {
	if i >= ItemCount {
		return ""
	}
	return itemDescriptions[i]
}

// Pick returns a uniformly random item from pool.
func Pick(rng *rand.Rand, pool []Item) Item {
	return pool[rng.IntN(len(pool))]
}

// Any returns a uniformly random item of any kind.
func Any(rng *rand.Rand) Item {
	return Item(rng.IntN(int(ItemCount)))
}

// Counts maps each item to the number owned.
type Counts [ItemCount]int

// Add increments the count of item. Counts never decrease.
func (c *Counts) Add(item Item, n int) {
	if item >= ItemCount || n <= 0 {
		return
	}
	c[item] += n
}

// Total returns the number of items owned.
func (c *Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
