package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

// OK is the acknowledgement shape used by endpoints that report only success.
func OK(message string) Envelope {
	return Envelope{"ok": true, "message": message}
}
