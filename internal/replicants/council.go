package replicants

// Fixed council line-ups, tuned for general-purpose reasoning
var (
	trio    = []string{"Bayesian Sage", "Automatist Oracle", "Essentia Distiller"}
	quartet = []string{"Comedic Trickster", "Bayesian Sage", "Constraint Weaver", "Synergy Lover"}
	quintet = []string{"Bayesian Sage", "Automatist Oracle", "Constraint Weaver", "Synergy Lover", "Essentia Distiller"}
	sextet  = []string{"Comedic Trickster", "Bayesian Sage", "Automatist Oracle", "Constraint Weaver", "Synergy Lover", "Essentia Distiller"}
	reserve = []string{"Secret House Keeper", "Daydream Cartographer", "Rational Dreamer", "Aesthetic Alchemist"}
	pair    = []string{"Bayesian Sage", "Synergy Lover"}
)

// BalancedCouncil returns a balanced line-up for the requested size. Sizes
// below three get the minimal pair; sizes above ten are capped at the full
// catalog.
func BalancedCouncil(size int) []string {
	switch {
	case size == 3:
		return append([]string{}, trio...)
	case size == 4:
		return append([]string{}, quartet...)
	case size == 5:
		return append([]string{}, quintet...)
	case size >= 6:
		extra := size - len(sextet)
		if extra > len(reserve) {
			extra = len(reserve)
		}
		council := append([]string{}, sextet...)
		return append(council, reserve[:extra]...)
	default:
		return append([]string{}, pair...)
	}
}
