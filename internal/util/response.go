package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func ErrorKind(message, kind string) Envelope {
	return Envelope{"error": message, "kind": kind}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
