package checklist

// MaxPhotosRequired caps a room's configurable photo threshold.
const MaxPhotosRequired = 10

// CanSubmit decides whether an item submission passes the room's photo
// requirement. The pool is room-scoped: photos persisted against any item of
// the room count toward the threshold together with the photos staged on this
// submission. No requirement, or a zero threshold, always passes.
func CanSubmit(requiresPhoto bool, requiredCount, persisted, staged int) bool {
	if !requiresPhoto || requiredCount <= 0 {
		return true
	}
	return persisted+staged >= requiredCount
}

// ClampRequiredCount normalizes a configured threshold into [0, MaxPhotosRequired];
// zero means no requirement.
func ClampRequiredCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxPhotosRequired {
		return MaxPhotosRequired
	}
	return n
}
