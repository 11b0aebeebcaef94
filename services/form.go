package services

import "strings"

// MaxIngredients ist die Obergrenze der auswählbaren Zutaten pro Smoothie.
const MaxIngredients = 5

// ValidationError ist ein Eingabefehler, den der Nutzer selbst beheben kann.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNameRequired = &ValidationError{
		Reason:  "name_required",
		Message: "Please enter a name for the smoothie.",
	}
	ErrNoIngredients = &ValidationError{
		Reason:  "no_ingredients",
		Message: "Please choose at least one ingredient.",
	}
	ErrTooManyIngredients = &ValidationError{
		Reason:  "too_many_ingredients",
		Message: "Please choose no more than 5 ingredients.",
	}
	ErrInvalidIngredients = &ValidationError{
		Reason:  "invalid_ingredients",
		Message: "Please choose each ingredient only once.",
	}
)

// OrderForm ist der aktuelle Zustand des Bestellformulars.
// Ingredients steht in Auswahlreihenfolge.
type OrderForm struct {
	NameOnOrder string   `form:"name_on_order" json:"name_on_order"`
	Ingredients []string `form:"ingredients" json:"ingredients"`
}

// CanSubmit entscheidet, ob der Bestellknopf aktiv ist.
func (f OrderForm) CanSubmit() bool {
	return f.Validate() == nil
}

// Validate prüft das Formular in derselben Reihenfolge wie die Oberfläche:
// erst der Name, dann die Zutaten. Leere Einträge zählen nicht als Zutat,
// Duplikate kann eine Mehrfachauswahl nicht erzeugen.
func (f OrderForm) Validate() error {
	if f.NameOnOrder == "" {
		return ErrNameRequired
	}
	chosen := CapSelection(f.Ingredients)
	switch {
	case len(chosen) == 0:
		return ErrNoIngredients
	case len(f.Ingredients) > MaxIngredients:
		return ErrTooManyIngredients
	case len(chosen) != len(f.Ingredients):
		return ErrInvalidIngredients
	}
	return nil
}

// IngredientsString verbindet die Auswahl mit genau einem Leerzeichen.
func (f OrderForm) IngredientsString() string {
	return strings.Join(f.Ingredients, " ")
}
