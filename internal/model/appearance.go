package model

// Stance indexes into Appearance.Stances.
const (
	StanceStand = iota
	StanceTurn
	StanceWalk
	StanceTurn180
	StanceTurn90CW
	StanceTurn90CCW
	StanceRun
)

// Color indexes into Appearance.Colors.
const (
	ColorHair = iota
	ColorTorso
	ColorLegs
	ColorFeet
	ColorSkin
)

// Appearance describes how a player character is drawn on other clients.
// It is delivered through the update-mask pipeline whenever it changes and
// once when the player is first added to a viewer's local list.
type Appearance struct {
	Gender         int8
	Skull          bool
	OverheadPrayer int8

	// Worn equipment by slot (head, cape, neck, weapon, torso, shield, ...).
	// Kit fields below fill the slots the equipment leaves uncovered.
	Equipment  [7]int16
	IsFullBody bool
	CoversHair bool
	CoversFace bool

	Hair  int16
	Beard int16
	Arms  int16
	Legs  int16
	Hands int16
	Feet  int16

	Colors  [5]int8  // hair, torso, legs, feet, skin
	Stances [7]int16 // stand, turn, walk, turn180, turn90cw, turn90ccw, run

	Username    string
	CombatLevel int8
	SkillLevel  int16
	Hidden      int8
}
