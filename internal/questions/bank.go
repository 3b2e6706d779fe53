package questions

// DefaultBank is the prompt list bundled with the binary. Order matters:
// reordering changes which question every past and future day maps to.
var DefaultBank = []string{
	"What feels the most alone right now?",
	"What seems out of place in this space?",
	"What looks like it’s holding something together?",
	"What appears to be waiting?",
	"What feels the most alive at this moment?",
	"What looks like it has the most tension?",
	"What seems unnoticed or overlooked?",
	"What feels fragile here?",
	"What appears to be connected to something else?",
	"What feels like it belongs to you today?",
}

// Bank returns configured when it is non-empty, otherwise DefaultBank.
func Bank(configured []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return DefaultBank
}
