package services

import "slices"

// ToggleIngredient schaltet fruit in der Auswahl um: ist es gewählt, wird es
// entfernt, sonst hinten angehängt. Bei voller Auswahl wird das Anhängen
// abgelehnt (accepted == false) und die Auswahl bleibt unverändert.
func ToggleIngredient(selected []string, fruit string) (next []string, accepted bool) {
	if i := slices.Index(selected, fruit); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1), true
	}
	if len(selected) >= MaxIngredients {
		return selected, false
	}
	return append(slices.Clone(selected), fruit), true
}

// CapSelection kürzt eine von außen kommende Auswahl auf MaxIngredients und
// verwirft leere Einträge sowie Duplikate, die Reihenfolge bleibt erhalten.
func CapSelection(selected []string) []string {
	out := make([]string, 0, min(len(selected), MaxIngredients))
	for _, fruit := range selected {
		if len(out) == MaxIngredients {
			break
		}
		if fruit == "" || slices.Contains(out, fruit) {
			continue
		}
		out = append(out, fruit)
	}
	return out
}
