package domain

// CombatStats are the health pool and fighting numbers of an actor.
// HP never exceeds MaxHP; it may go below zero until the death sweep runs.
type CombatStats struct {
	MaxHP   int `json:"maxHp"`
	HP      int `json:"hp"`
	Defense int `json:"defense"`
	Power   int `json:"power"`
}

// MeleeDamageAgainst is the flat formula: power minus the defender's defense,
// never negative.
func (s CombatStats) MeleeDamageAgainst(defender CombatStats) int {
	return max(0, s.Power-defender.Defense)
}

// Heal raises HP by amount, capped at MaxHP. It returns the HP actually gained.
func (s *CombatStats) Heal(amount int) int {
	before := s.HP
	s.HP = min(s.MaxHP, s.HP+amount)
	return max(0, s.HP-before)
}

// TakeDamage subtracts amount without clamping; negative HP is legal until
// the death sweep. It reports whether the actor is now dead.
func (s *CombatStats) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	s.HP -= amount
	return s.IsDead()
}

func (s CombatStats) IsDead() bool {
	return s.HP < 1
}

func (s CombatStats) IsAlive() bool {
	return s.HP > 0
}
