package web

// ButtonVariant selects one of the fixed button styles.
type ButtonVariant string

const (
	ButtonDefault ButtonVariant = "default"
	ButtonHero    ButtonVariant = "hero"
	ButtonGlass   ButtonVariant = "glass"
)

// Button is the view model of the button partial.
type Button struct {
	Variant ButtonVariant
	Label   string
	Class   string
	Hero    bool // hero buttons carry the animated circles
}

// NewButton builds a button. Unknown variants fall back to default.
func NewButton(variant, label string) Button {
	v := ButtonVariant(variant)
	switch v {
	case ButtonHero:
		return Button{Variant: v, Label: label, Class: "custom-btn-hero", Hero: true}
	case ButtonGlass:
		return Button{Variant: v, Label: label, Class: "btn-glass"}
	default:
		return Button{Variant: ButtonDefault, Label: label, Class: "btn-authentiq"}
	}
}
