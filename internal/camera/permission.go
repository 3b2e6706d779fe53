package camera

import "fmt"

// Permission is the persisted camera access decision.
type Permission int

const (
	NotDetermined Permission = iota
	Authorized
	Denied
	Restricted
)

func (p Permission) String() string {
	switch p {
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	case Restricted:
		return "restricted"
	default:
		return "not_determined"
	}
}

// ParsePermission reads the settings representation of a Permission.
// The empty string is NotDetermined.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "", "not_determined":
		return NotDetermined, nil
	case "authorized":
		return Authorized, nil
	case "denied":
		return Denied, nil
	case "restricted":
		return Restricted, nil
	}
	return NotDetermined, fmt.Errorf("unknown camera permission %q", s)
}
