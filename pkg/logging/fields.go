package logging

import "time"

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func EntityID(id string) Field {
	return String("entity_id", id)
}

func Entities(n int) Field {
	return Int("entities", n)
}

func Obligations(n int) Field {
	return Int("obligations", n)
}

func Steps(n int) Field {
	return Int("steps", n)
}

func FailedEntities(n int) Field {
	return Int("failed_entities", n)
}

func Scenario(name string) Field {
	return String("scenario", name)
}

func Seed(seed int64) Field {
	return Int64("seed", seed)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}
